package model

import "github.com/shopspring/decimal"

// State is the durable record: everything except the session and basket.
type State struct {
	Users  []Account `json:"users"`
	Items  []Item    `json:"items"`
	Chats  []Chat    `json:"chats"`
	Orders []Order   `json:"orders"`
}

// Normalize replaces nil collections with empty ones so the record always
// serialises with arrays.
func (s *State) Normalize() {
	if s.Users == nil {
		s.Users = []Account{}
	}
	if s.Items == nil {
		s.Items = []Item{}
	}
	if s.Chats == nil {
		s.Chats = []Chat{}
	}
	if s.Orders == nil {
		s.Orders = []Order{}
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		Users:  make([]Account, len(s.Users)),
		Items:  make([]Item, len(s.Items)),
		Chats:  make([]Chat, len(s.Chats)),
		Orders: make([]Order, len(s.Orders)),
	}
	for i, u := range s.Users {
		if u.Credential != nil {
			cred := *u.Credential
			u.Credential = &cred
		}
		out.Users[i] = u
	}
	copy(out.Items, s.Items)
	for i, c := range s.Chats {
		c.Messages = append([]Message(nil), c.Messages...)
		out.Chats[i] = c
	}
	for i, o := range s.Orders {
		o.Lines = append([]OrderLine(nil), o.Lines...)
		o.ChatIDs = append([]string(nil), o.ChatIDs...)
		out.Orders[i] = o
	}
	return out
}

// FindItem returns the index of the item with id, or -1.
func (s *State) FindItem(id string) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// FindUser returns the index of the account with username, or -1.
func (s *State) FindUser(username string) int {
	for i := range s.Users {
		if s.Users[i].Username == username {
			return i
		}
	}
	return -1
}

// FindChat returns the index of the chat with id, or -1.
func (s *State) FindChat(id string) int {
	for i := range s.Chats {
		if s.Chats[i].ID == id {
			return i
		}
	}
	return -1
}

// InventoryValue returns the value of all stock at current prices.
func (s *State) InventoryValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Stock))))
	}
	return total
}
