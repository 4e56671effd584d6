package controller

import (
	"net/http"

	"rifamania/logger"
	"rifamania/web/service"

	"github.com/gin-gonic/gin"
)

type RaffleController struct {
	BaseController

	raffleService  service.RaffleService
	ticketService  service.TicketService
	paymentService service.PaymentService
}

type purchaseForm struct {
	Name    string `json:"name" binding:"required,min=3"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Numbers []int  `json:"numbers" binding:"required"`
}

type paymentWebhookForm struct {
	PaymentId string `json:"paymentId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

func NewRaffleController(public, authed *gin.RouterGroup) *RaffleController {
	a := &RaffleController{}
	a.initRouter(public, authed)
	return a
}

func (a *RaffleController) initRouter(public, authed *gin.RouterGroup) {
	public.GET("/raffles/get/:slug", a.getBySlug)
	public.POST("/raffles/purchase/:id", a.purchase)
	public.POST("/webhook/payment", a.paymentWebhook)

	authed.POST("/raffles/add", a.add)
	authed.GET("/raffles/list", a.list)
	authed.POST("/raffles/update/:id", a.update)
	authed.POST("/raffles/draw/:id", a.draw)
	authed.GET("/raffles/tickets/:id", a.tickets)
}

func (a *RaffleController) getBySlug(c *gin.Context) {
	details, err := a.raffleService.GetBySlug(c.Param("slug"))
	jsonInternal(c, details, err)
}

func (a *RaffleController) add(c *gin.Context) {
	form := &service.RaffleForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Dados da rifa inválidos.")
		return
	}
	raffle, err := a.raffleService.CreateRaffle(loggedInUser(c), form)
	if err != nil {
		jsonInternal(c, nil, err)
		return
	}
	c.JSON(http.StatusCreated, raffle)
}

func (a *RaffleController) list(c *gin.Context) {
	raffles, err := a.raffleService.ListByCreator(loggedInUser(c))
	jsonInternal(c, raffles, err)
}

func (a *RaffleController) update(c *gin.Context) {
	form := &service.RaffleForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Dados da rifa inválidos.")
		return
	}
	raffle, err := a.raffleService.UpdateRaffle(loggedInUser(c), c.Param("id"), form)
	jsonInternal(c, raffle, err)
}

// purchase reserves numbers and raises the pix intent for them in one
// request. The reservation stands even if the payment intent fails; payment
// status catches up through the webhook.
func (a *RaffleController) purchase(c *gin.Context) {
	form := &purchaseForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Dados da compra inválidos.")
		return
	}

	buyer := service.TicketBuyer{Name: form.Name, Email: form.Email, Phone: form.Phone}
	tickets, raffle, err := a.ticketService.Purchase(c.Param("id"), buyer, form.Numbers)
	if err != nil {
		jsonInternal(c, nil, err)
		return
	}

	// price × quantity in centavos, before any major-unit conversion
	amount := raffle.TicketPrice * int64(len(tickets))
	intent, err := a.paymentService.CreatePixIntent(amount, buyer.Email, "Rifa: "+raffle.Name)
	if err != nil {
		logger.Warning("pix intent failed, tickets remain pending:", err)
	} else {
		ids := make([]string, 0, len(tickets))
		for _, t := range tickets {
			ids = append(ids, t.Id)
		}
		if err := a.ticketService.AttachPayment(ids, intent.Id); err != nil {
			logger.Warning("failed to attach payment to tickets:", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket comprado com sucesso",
		"tickets": tickets,
		"payment": intent,
	})
}

func (a *RaffleController) draw(c *gin.Context) {
	result, err := a.raffleService.Draw(loggedInUser(c), c.Param("id"))
	jsonInternal(c, result, err)
}

func (a *RaffleController) tickets(c *gin.Context) {
	tickets, err := a.ticketService.ListByRaffle(loggedInUser(c), c.Param("id"))
	jsonInternal(c, tickets, err)
}

func (a *RaffleController) paymentWebhook(c *gin.Context) {
	form := &paymentWebhookForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Payload inválido.")
		return
	}
	if form.Status != "approved" {
		// only confirmations move the payment status forward
		jsonMsg(c, "ignored", nil)
		return
	}
	updated, err := a.ticketService.ConfirmPayment(form.PaymentId)
	jsonInternal(c, gin.H{"updated": updated}, err)
}
