package enum

type QueueEnum string

const (
	ORDER_CREATED_QUEUE QueueEnum = "order.created"
)

func (e QueueEnum) ToString() string {
	return string(e)
}
