package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
	"github.com/Scriprto/steal-brainrot-shop/pkg/uid"

	"github.com/shopspring/decimal"
)

// openingMessage is the buyer's first line in a new chat.
func openingMessage(itemName string, method model.PaymentMethod) string {
	if method == model.PaymentRobux {
		return fmt.Sprintf("Hi, I'd like to buy %s (paying with Robux).", itemName)
	}
	return fmt.Sprintf("Hi, I'd like to buy %s.", itemName)
}

// Checkout turns the basket into one chat per unit and records an order.
// An empty basket returns no ids and changes nothing. Stock is only taken
// when a sale is confirmed.
func (s *Shop) Checkout(ctx context.Context, method model.PaymentMethod) ([]string, error) {
	buyer, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !method.Valid() {
		return nil, apierror.ValidationError("unknown payment method",
			apierror.FieldError{Field: "method", Message: "must be CREDITS or ROBUX"})
	}

	basket, err := s.loadBasket(ctx)
	if err != nil {
		return nil, err
	}
	if basket.Units() == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(basket))
	for id := range basket {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.mu.Lock()
	now := s.now().UTC()
	order := model.Order{
		ID:            uid.NewPrefixed("o"),
		BuyerUsername: buyer.Username,
		PaymentMethod: method,
		Total:         decimal.Zero,
		CreatedAt:     now,
	}
	var chats []model.Chat
	for _, itemID := range ids {
		idx := s.state.FindItem(itemID)
		if idx < 0 {
			continue
		}
		item := s.state.Items[idx]
		qty := basket[itemID]
		if qty > item.Stock {
			qty = item.Stock
		}
		if qty <= 0 {
			continue
		}

		line := model.OrderLine{ItemID: item.ID, ItemName: item.Name, Quantity: qty, UnitPrice: item.Price}
		order.Lines = append(order.Lines, line)
		order.Total = order.Total.Add(line.Subtotal())

		for i := 0; i < qty; i++ {
			chat := model.Chat{
				ID:            uid.NewPrefixed("c"),
				BuyerUsername: buyer.Username,
				BuyerDisplay:  buyer.DisplayName,
				ItemID:        item.ID,
				ItemName:      item.Name,
				OrderID:       order.ID,
				PaymentMethod: method,
				Status:        model.ChatOpen,
			}
			chat.Append(buyer.Username, openingMessage(item.Name, method), now)
			chats = append(chats, chat)
			order.ChatIDs = append(order.ChatIDs, chat.ID)
		}
	}

	if len(chats) == 0 {
		s.mu.Unlock()
		return nil, s.clearBasket(ctx)
	}

	s.state.Chats = append(s.state.Chats, chats...)
	s.state.Orders = append(s.state.Orders, order)
	perr := s.persist(ctx)
	s.mu.Unlock()

	if err := s.clearBasket(ctx); err != nil {
		return order.ChatIDs, err
	}
	if perr != nil {
		return order.ChatIDs, perr
	}

	log.Printf("[Shop] Checkout by %s: order %s, %d chats, total %s via %s",
		buyer.Username, order.ID, len(chats), order.Total, method)
	s.record(ctx, model.ActivityCheckout, buyer.Username, order.ID,
		fmt.Sprintf("%d units, total %s, %s", len(chats), order.Total, method))
	return order.ChatIDs, nil
}

func (s *Shop) clearBasket(ctx context.Context) error {
	if err := s.sessions.ClearBasket(ctx); err != nil {
		return apierror.ServiceUnavailable(err.Error())
	}
	return nil
}

// canSee reports whether sess may read or post in chat.
func canSee(sess *model.Session, chat *model.Chat) bool {
	return sess.IsAdmin || sess.Username == chat.BuyerUsername
}

// SendMessage appends text to a chat as the signed-in user. Only the buyer
// and admins may post.
func (s *Shop) SendMessage(ctx context.Context, chatID, text string) (model.Message, error) {
	sess, err := s.requireSession(ctx)
	if err != nil {
		return model.Message{}, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Message{}, apierror.ValidationError("message text is required",
			apierror.FieldError{Field: "text", Message: "is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindChat(chatID)
	if idx < 0 {
		return model.Message{}, apierror.ChatNotFound(chatID)
	}
	chat := &s.state.Chats[idx]
	if !canSee(sess, chat) {
		return model.Message{}, apierror.Forbidden("only the buyer or an admin may post in this chat")
	}
	chat.Append(sess.Username, text, s.now().UTC())
	msg := chat.Messages[len(chat.Messages)-1]
	return msg, s.persist(ctx)
}

// MarkClaimed moves an OPEN chat to CLAIMED. Claimed and completed chats
// are left unchanged.
func (s *Shop) MarkClaimed(ctx context.Context, chatID string) (model.Chat, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return model.Chat{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindChat(chatID)
	if idx < 0 {
		return model.Chat{}, apierror.ChatNotFound(chatID)
	}
	chat := &s.state.Chats[idx]
	changed, err := chat.Transition(model.ChatClaimed)
	if err != nil {
		return *chat, apierror.InternalError(err.Error())
	}
	if !changed {
		return *chat, nil
	}
	out := *chat
	if err := s.persist(ctx); err != nil {
		return out, err
	}
	s.record(ctx, model.ActivityChatClaimed, admin.Username, chatID, chat.ItemID)
	return out, nil
}

// ConfirmSale completes a chat and takes one unit of its item out of stock.
// Confirming an already completed chat changes nothing, so each chat
// decrements stock at most once.
func (s *Shop) ConfirmSale(ctx context.Context, chatID string) (model.Chat, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return model.Chat{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindChat(chatID)
	if idx < 0 {
		return model.Chat{}, apierror.ChatNotFound(chatID)
	}
	chat := &s.state.Chats[idx]
	changed, err := chat.Transition(model.ChatCompleted)
	if err != nil {
		return *chat, apierror.InternalError(err.Error())
	}
	if !changed {
		return *chat, nil
	}
	s.decrementStock(chat.ItemID)
	out := *chat
	if err := s.persist(ctx); err != nil {
		return out, err
	}
	s.record(ctx, model.ActivitySaleConfirmed, admin.Username, chatID, chat.ItemID)
	return out, nil
}

// Chats lists chats visible to the session: all of them for admins, the
// buyer's own otherwise.
func (s *Shop) Chats(ctx context.Context) ([]model.Chat, error) {
	sess, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Chat{}
	for i := range s.state.Chats {
		c := &s.state.Chats[i]
		if canSee(sess, c) {
			cp := *c
			cp.Messages = append([]model.Message(nil), c.Messages...)
			out = append(out, cp)
		}
	}
	return out, nil
}

// Chat returns a single chat under the same visibility rule as Chats.
func (s *Shop) Chat(ctx context.Context, chatID string) (model.Chat, error) {
	sess, err := s.requireSession(ctx)
	if err != nil {
		return model.Chat{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindChat(chatID)
	if idx < 0 {
		return model.Chat{}, apierror.ChatNotFound(chatID)
	}
	c := s.state.Chats[idx]
	if !canSee(sess, &c) {
		return model.Chat{}, apierror.ChatNotFound(chatID)
	}
	c.Messages = append([]model.Message(nil), c.Messages...)
	return c, nil
}

// Orders lists orders visible to the session.
func (s *Shop) Orders(ctx context.Context) ([]model.Order, error) {
	sess, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Order{}
	for _, o := range s.state.Orders {
		if sess.IsAdmin || o.BuyerUsername == sess.Username {
			out = append(out, o)
		}
	}
	return out, nil
}
