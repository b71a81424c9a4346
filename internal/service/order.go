package service

import (
	"context"
	"errors"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/logger"
	"powerloop-backend/internal/payment"
	"powerloop-backend/internal/repository"

	"github.com/google/uuid"
)

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	payments    payment.Provider
	emailSvc    EmailService
	currency    string
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	payments payment.Provider,
	emailSvc EmailService,
	currency string,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		payments:    payments,
		emailSvc:    emailSvc,
		currency:    currency,
	}
}

func (s *orderService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *orderService) Checkout(ctx context.Context, userID int32, items []CheckoutItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{UserID: userID, Status: domain.OrderStatusPending}
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, ErrOutOfStock
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
			Name:           product.Name,
		})
		order.TotalCents += product.PriceCents * item.Quantity
	}
	if len(order.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// Store purchases charge immediately: authorize then capture in full.
	ref, err := s.payments.Authorize(ctx, order.TotalCents, s.currency, uuid.NewString())
	if err != nil {
		return nil, err
	}
	if err := s.payments.Capture(ctx, ref, order.TotalCents); err != nil {
		if relErr := s.payments.Release(ctx, ref); relErr != nil && !errors.Is(relErr, payment.ErrHoldUnknown) {
			logger.Error("Failed to release hold after capture failure", "ref", ref, "error", relErr)
		}
		return nil, err
	}

	order.Status = domain.OrderStatusPaid
	order.PaymentRef = ref
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			logger.Error("Failed to decrement stock", "product_id", item.ProductID, "error", err)
		}
	}

	if user, uerr := s.userRepo.GetByID(ctx, userID); uerr == nil {
		if merr := s.emailSvc.SendOrderConfirmation(ctx, user.Email, user.Name, order); merr != nil {
			logger.Warn("Failed to send order confirmation", "order_id", order.ID, "error", merr)
		}
	}

	logger.Info("Order placed", "order_id", order.ID, "user_id", userID, "total_cents", order.TotalCents)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Order, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.orderRepo.ListByUser(ctx, userID, page, pageSize)
}
