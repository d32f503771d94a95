package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"member-services/domain"
)

type CheckoutService struct {
	orders OrderCreator
	logger *zap.Logger
}

func NewCheckoutService(orders OrderCreator, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{orders: orders, logger: logger}
}

// Submit sends the cart to the order backend on behalf of the member
// identified by memberRef (their bearer token). When the backend rejects the
// order the cart is left as it was. Once the backend returns an order id the
// order is accepted: the id is handed off to the confirmation view and the
// cart is cleared. Failures in those two follow-up steps are returned wrapped
// alongside the order id, so callers must not resubmit when the id is set.
func (s *CheckoutService) Submit(
	ctx context.Context,
	cart *CartStore,
	handoff *CheckoutHandoff,
	memberRef string,
	paymentMethod *string,
) (string, error) {

	lines, err := cart.Lines(ctx)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	req := BuildCheckoutRequest(lines, paymentMethod)

	orderID, err := s.orders.CreateOrder(ctx, memberRef, req)
	if err != nil {
		s.logger.Warn("checkout failed",
			zap.String("shop_type", string(req.ShopType)),
			zap.Int("items", len(req.Items)),
			zap.Error(err))
		return "", err
	}

	var errs []error
	if err := handoff.Put(ctx, orderID); err != nil {
		s.logger.Error("order created but confirmation handoff not stored",
			zap.String("order_id", orderID),
			zap.Error(err))
		errs = append(errs, err)
	}
	if err := cart.Clear(ctx); err != nil {
		s.logger.Error("order created but cart not cleared",
			zap.String("order_id", orderID),
			zap.Error(err))
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return orderID, fmt.Errorf("order %s created: %w", orderID, errors.Join(errs...))
	}

	s.logger.Info("checkout accepted",
		zap.String("order_id", orderID),
		zap.String("shop_type", string(req.ShopType)),
		zap.Int("items", len(req.Items)))

	return orderID, nil
}

// BuildCheckoutRequest snapshots the cart. The shop type is taken from the
// first line.
func BuildCheckoutRequest(lines []domain.CartLine, paymentMethod *string) domain.CheckoutRequest {
	req := domain.CheckoutRequest{
		Items:         make([]domain.CheckoutItem, 0, len(lines)),
		PaymentMethod: paymentMethod,
	}
	if len(lines) > 0 {
		req.ShopType = lines[0].ShopType
	}
	for _, l := range lines {
		req.Items = append(req.Items, domain.CheckoutItem{
			ProductID: l.ID,
			Quantity:  l.Quantity,
		})
	}
	return req
}
