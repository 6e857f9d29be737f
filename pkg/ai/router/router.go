package router

import "parent-assistant-be/pkg/rag/intent"

// Destination names the information-gathering path for a message.
type Destination string

const (
	DestRetrieve     Destination = "retrieve"
	DestSearchNews   Destination = "search_news"
	DestPriceInfo    Destination = "price_info"
	DestDirectAnswer Destination = "direct_answer"
	DestReuseContext Destination = "reuse_context"
)

var routes = map[intent.Label]Destination{
	intent.LabelQuestion: DestRetrieve,
	intent.LabelEvent:    DestSearchNews,
	intent.LabelPrice:    DestPriceInfo,
	intent.LabelCasual:   DestDirectAnswer,
	intent.LabelUnknown:  DestDirectAnswer,
	intent.LabelFollowup: DestReuseContext,
}

// Route maps a label to its destination. Labels outside the table go to
// retrieval, the same direction the classifier falls back to.
func Route(label intent.Label) Destination {
	if dest, ok := routes[label]; ok {
		return dest
	}
	return DestRetrieve
}
