package main

import (
	"log"
	"net/http"

	"etix/src/common"
	"etix/src/types"

	"github.com/gin-gonic/gin"
)

func purchaseHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/purchases", func(ctx *gin.Context) {
			var body types.CreatePurchaseRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			purchase, err := common.CreatePurchase(ctx.Request.Context(), ctx.GetUint("id"), &body)
			if err != nil {
				log.Printf("error creating purchase: %s", err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": purchase})
		}).
		GET("/purchases", func(ctx *gin.Context) {
			purchases, err := common.GetPurchaseHistory(ctx.GetUint("id"))
			if err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": purchases})
		}).
		GET("/purchases/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			purchase, err := common.GetPurchase(params.ID, ctx.GetUint("id"))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": purchase})
		}).
		GET("/credits", func(ctx *gin.Context) {
			balance, history, err := common.GetCreditBalance(ctx.GetUint("id"))
			if err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"balance": balance,
				"history": history,
			}})
		})
	return g
}
