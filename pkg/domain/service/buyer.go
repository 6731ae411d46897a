package service

import (
	"github.com/evgensan-b/weblarek/pkg/common/domain"
	"github.com/evgensan-b/weblarek/pkg/domain/model"
)

type BuyerService interface {
	SetBuyerData(patch model.BuyerPatch)
	BuyerData() model.Buyer
	ClearBuyerData()
	Validate() model.ValidationErrors
}

func NewBuyerService(dispatcher domain.EventDispatcher) BuyerService {
	return &buyerService{dispatcher: dispatcher}
}

type buyerService struct {
	dispatcher domain.EventDispatcher
	data       model.Buyer
}

// SetBuyerData merges the patch into the record; nil fields are left as is.
func (s *buyerService) SetBuyerData(patch model.BuyerPatch) {
	if patch.Payment != nil {
		s.data.Payment = *patch.Payment
	}
	if patch.Email != nil {
		s.data.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.data.Phone = *patch.Phone
	}
	if patch.Address != nil {
		s.data.Address = *patch.Address
	}

	_ = s.dispatcher.Dispatch(model.BuyerChanged{Buyer: s.data})
}

func (s *buyerService) BuyerData() model.Buyer {
	return s.data
}

func (s *buyerService) ClearBuyerData() {
	s.data = model.Buyer{}

	_ = s.dispatcher.Dispatch(model.BuyerChanged{Buyer: s.data})
}

// Validate checks presence only, every field independently. No format
// checks: an email is valid as soon as it is non-empty.
func (s *buyerService) Validate() model.ValidationErrors {
	errors := model.ValidationErrors{}

	if s.data.Payment == model.PaymentUnset {
		errors[model.FieldPayment] = "Не выбран вид оплаты"
	}
	if s.data.Email == "" {
		errors[model.FieldEmail] = "Укажите емэйл"
	}
	if s.data.Phone == "" {
		errors[model.FieldPhone] = "Укажите номер телефона"
	}
	if s.data.Address == "" {
		errors[model.FieldAddress] = "Укажите адрес доставки заказа"
	}

	return errors
}
