package main

import (
	"log"
	"net/http"

	"etix/src/common"
	"etix/src/types"

	"github.com/gin-gonic/gin"
)

func ticketTypeHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/ticket-types/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketType, err := common.GetTicketType(params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketType})
		}).
		POST("/ticket-types", func(ctx *gin.Context) {
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketType, err := common.CreateTicketType(&body)
			if err != nil {
				log.Printf("error creating ticket type: %s", err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": ticketType.ID})
		}).
		PATCH("/ticket-types/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.AdjustAvailabilityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticketType, err := common.AdjustAvailability(params.ID, body.Delta)
			if err != nil {
				log.Printf("error adjusting availability for ticket type [%d]: %s", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticketType})
		})
	return g
}
