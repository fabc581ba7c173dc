package model

import "time"

// Activity kinds
const (
	ActivityItemCreated   = "item_created"
	ActivityItemRestocked = "item_restocked"
	ActivityPriceSet      = "price_set"
	ActivityCheckout      = "checkout"
	ActivityChatClaimed   = "chat_claimed"
	ActivitySaleConfirmed = "sale_confirmed"
)

// Activity is an entry in the admin activity log.
type Activity struct {
	ID        int64     `json:"id" bson:"-"`
	Kind      string    `json:"kind" bson:"kind"`
	Actor     string    `json:"actor" bson:"actor"`
	Subject   string    `json:"subject" bson:"subject"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
