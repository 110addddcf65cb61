package main

import (
	"log"
	"net/http"

	"etix/src/common"
	"etix/src/types"

	"github.com/gin-gonic/gin"
)

// checkInHandlers serves the gate clients. Scanning is read-only; the
// check-in itself is a separate call so staff confirm before the flip.
func checkInHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkin/scan", func(ctx *gin.Context) {
			var body types.CheckInScanRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.FindTicketByQr(&body)
			if err != nil {
				log.Printf("gate scan rejected: %s", err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		}).
		POST("/checkin/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := common.CheckInTicket(params.ID, ctx.GetUint("id"))
			if err != nil {
				log.Printf("check-in rejected for ticket [%d]: %s", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		})
	return g
}
