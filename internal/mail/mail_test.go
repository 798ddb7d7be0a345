package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

func TestRenderPasswordReset(t *testing.T) {
	html, err := Render("password_reset.html", map[string]string{
		"Name":      "Ana",
		"Link":      "http://localhost:3000/reset-password?token=abc",
		"ExpiresIn": "1 hora",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Hola Ana")
	assert.Contains(t, html, "token=abc")
}

func TestRenderOrderConfirmation(t *testing.T) {
	order := models.Order{
		OrderNumber:  "AB12CD34",
		CustomerName: "Luis",
		Subtotal:     decimal.RequireFromString("25.00"),
		DeliveryCost: decimal.RequireFromString("3.50"),
		Total:        decimal.RequireFromString("28.50"),
		Items: []models.OrderItem{
			{ProductName: "Brownie", Quantity: 2, TotalPrice: decimal.RequireFromString("25")},
		},
	}
	html, err := Render("order_confirmation.html", order)
	require.NoError(t, err)
	assert.Contains(t, html, "AB12CD34")
	assert.Contains(t, html, "$28.50")
	assert.Contains(t, html, "2 × Brownie")
}

func TestOutbox(t *testing.T) {
	o := &Outbox{}
	require.NoError(t, o.Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}))
	require.Len(t, o.Sent(), 1)

	o.Err = errors.New("smtp down")
	require.Error(t, o.Send(context.Background(), Message{To: "a@b.c"}))
	assert.Len(t, o.Sent(), 1)
}

func TestLogMailer(t *testing.T) {
	require.NoError(t, LogMailer{}.Send(context.Background(), Message{To: "a@b.c"}))
}
