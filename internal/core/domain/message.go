package domain

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// MessagePath is where message pages are served.
const MessagePath = "/message"

// Message is a user-facing page shown after a redirect.
type Message struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"message"`
	Success    bool   `json:"success"`
	HTTPStatus int    `json:"http_status_code"`
}

func NewMessage(title, body string, httpStatus int) *Message {
	if httpStatus == 0 {
		httpStatus = http.StatusOK
	}
	return &Message{
		ID:         uuid.NewString(),
		Title:      title,
		Body:       body,
		Success:    httpStatus < http.StatusBadRequest,
		HTTPStatus: httpStatus,
	}
}

// Location is the redirect target for a stored message.
func (m *Message) Location() string {
	return MessagePath + "?" + url.Values{"id": []string{m.ID}}.Encode()
}

// InlineLocation carries the message in the query string. It is used when the
// message store is unavailable.
func (m *Message) InlineLocation() string {
	return MessagePath + "?" + url.Values{
		"title":            []string{m.Title},
		"message":          []string{m.Body},
		"http_status_code": []string{strconv.Itoa(m.HTTPStatus)},
	}.Encode()
}

// MessageFromQuery rebuilds an inline message. It returns nil when the query
// carries no title.
func MessageFromQuery(query url.Values) *Message {
	title := query.Get("title")
	if title == "" {
		return nil
	}
	status, err := strconv.Atoi(query.Get("http_status_code"))
	if err != nil || status < 100 || status > 599 {
		status = http.StatusOK
	}
	return &Message{
		Title:      title,
		Body:       query.Get("message"),
		Success:    status < http.StatusBadRequest,
		HTTPStatus: status,
	}
}

// User-facing messages.
const (
	MsgMissingInfoTitle = "Some information is missing"
	MsgMissingInfoBody  = "Looks like someone sent you to an incomplete URL. Please ask them to look into it."

	MsgServerErrorTitle = "Server Error"
	MsgServerErrorBody  = "Seems issue with server's razorpay config. Don't worry, in case of failure amount will get refunded to your account."

	MsgSomethingWrongTitle = "Something went wrong"
	MsgSomethingWrongBody  = "Looks like something is wrong with this site's Razorpay configuration. Don't worry! No payment has been made."

	MsgPaymentSuccessTitle = "Payment Success"
	MsgPaymentSuccessBody  = "Your payment was successfully accepted."
)
