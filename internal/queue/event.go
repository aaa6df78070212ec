// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them into the websocket hub.
package queue

import "encoding/json"

// NotificationQueueName is the durable queue carrying realtime notification
// events from request handlers to the hub consumer.
const NotificationQueueName = "notifications"

// Event names broadcast to brand rooms.
const (
	EventFollowerAdded = "follower_added"
	EventNewPost       = "new_post"
	EventNewProduct    = "new_product"
	EventPostLiked     = "post_liked"
	EventNewComment    = "new_comment"
	EventNewDrag       = "new_drag"
	EventDragComment   = "drag_comment"
)

// NotificationEvent is published whenever a handler wants connected clients
// to refresh.  Rooms lists the brand rooms to broadcast into; Data is the
// event-specific payload forwarded verbatim to the browser.  Events carry no
// delivery guarantee: a disconnected client simply misses them.
type NotificationEvent struct {
	Event string          `json:"event"`
	Rooms []string        `json:"rooms"`
	Data  json.RawMessage `json:"data"`
}
