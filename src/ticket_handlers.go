package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"etix/src/common"
	"etix/src/config"
	"etix/src/db"
	"etix/src/lib"
	"etix/src/models"
	"etix/src/types"
	"etix/src/utils"

	awslib "etix/src/lib/aws"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
)

func ticketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tickets", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var tickets []models.Ticket
			db := db.GetDb()
			if err := db.
				Where("user_id = ?", userId).
				Preload("Event").
				Preload("TicketType").
				Order("created_at desc").
				Find(&tickets).Error; err != nil {
				log.Printf("Error retrieving Tickets: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets})
		}).
		GET("/tickets/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var ticket models.Ticket
			db := db.GetDb()
			if err := db.
				Where("id = ? AND user_id = ?", params.ID, userId).
				Preload("Event").
				Preload("TicketType").
				First(&ticket).
				Error; err != nil {
				respondError(ctx, common.ErrTicketNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:id/refund", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := common.RequestRefund(params.ID, ctx.GetUint("id"))
			if err != nil {
				log.Printf("error requesting refund for ticket [%d]: %s", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:id/exchange", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ExchangeTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := common.ExchangeTicket(ctx.Request.Context(), params.ID, ctx.GetUint("id"), &body)
			if err != nil {
				log.Printf("error exchanging ticket [%d]: %s", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		GET("/tickets/:id/code", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			var ticket models.Ticket
			db := db.GetDb()
			if err := db.
				Where("id = ? AND user_id = ?", params.ID, userId).
				First(&ticket).
				Error; err != nil {
				respondError(ctx, common.ErrTicketNotFound)
				return
			}
			if ticket.Status != types.TICKET_PURCHASED {
				respondError(ctx, common.ErrAlreadyCancelled)
				return
			}
			url, err := ticketCodeURL(ctx.Request.Context(), &ticket)
			if err != nil {
				log.Printf("error rendering code for ticket [%d]: %s", ticket.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"url": url}})
		})
	return g
}

// ticketCodeURL renders the ticket's QR image, uploads it and returns a
// short-lived signed URL. The URL is cached in redis for the upload's
// lifetime so repeat downloads skip the render.
func ticketCodeURL(ctx context.Context, ticket *models.Ticket) (string, error) {
	cacheKey := lib.TicketCodeKey(ticket.ID)
	rd := lib.GetRedisClient()
	if cached, err := rd.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		return cached, nil
	}

	code, err := utils.EncodeTicketQr(ticket.ID, ticket.EventID, ticket.UserID)
	if err != nil {
		return "", err
	}
	qrc, err := qrcode.New(code)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("ticket-%d.jpeg", ticket.ID)
	filepath := path.Join(os.TempDir(), filename)
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return "", err
	}

	if os.Getenv("APP_ENV") == "local" {
		return filepath, nil
	}
	url, err := awslib.S3UploadAsset(filename, filepath)
	if err != nil {
		log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
		return "", err
	}
	rd.SetEx(ctx, cacheKey, *url, 2*time.Hour)
	return *url, nil
}

func adminTicketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		PATCH("/tickets/:id/refund-status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateRefundStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := common.UpdateRefundStatus(params.ID, body.Status)
			if err != nil {
				log.Printf("error updating refund status for ticket [%d]: %s", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/tickets/:id/refund/process", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ticket, err := common.ProcessTicketRefund(ctx.Request.Context(), params.ID)
			if err != nil {
				log.Printf("error processing refund for ticket [%d]: %s", params.ID, err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ticket})
		}).
		POST("/refunds/sweep", func(ctx *gin.Context) {
			results, err := common.SweepStaleRefunds(ctx.Request.Context(), config.RefundSweepThresholdDays())
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": results})
		})
	return g
}
