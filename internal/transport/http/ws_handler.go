package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gait-quiz/internal/app"
	"gait-quiz/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode domain.Mode     `json:"mode"`
	Exam domain.ExamType `json:"exam"`
}

type answerPayload struct {
	Index int `json:"index"`
}

type bookmarkPayload struct {
	QuestionID int `json:"questionId"`
}

type bookmarkResult struct {
	QuestionID int  `json:"questionId"`
	Bookmarked bool `json:"bookmarked"`
}

type clearPayload struct {
	Confirmed bool `json:"confirmed"`
}

type categoryPayload struct {
	Category string `json:"category"`
}

type categoryResult struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and maps inbound intents onto
// the quiz service.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg := outboundMessage[any]{Type: update.Type, Payload: update.Timer}
				if update.Type == app.UpdateCompleted {
					msg = outboundMessage[any]{Type: "result", Payload: update.Result}
				}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "dashboard", Payload: h.service.Dashboard()}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		send <- h.dispatch(r, inbound)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, inbound inboundMessage) outboundMessage[any] {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		var p startPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return errorMessage("invalid start payload")
		}
		q, err := h.service.Start(ctx, p.Mode, p.Exam)
		if err != nil {
			return failure(err)
		}
		return reply("question", q)
	case "answer":
		var p answerPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return errorMessage("invalid answer payload")
		}
		res, err := h.service.Answer(ctx, p.Index)
		if err != nil {
			return failure(err)
		}
		return reply("answerResult", res)
	case "advance":
		step, err := h.service.Advance(ctx)
		if err != nil {
			return failure(err)
		}
		if step.Result != nil {
			return reply("result", step.Result)
		}
		return reply("question", step.Question)
	case "retry":
		q, err := h.service.Retry(ctx)
		if err != nil {
			return failure(err)
		}
		return reply("question", q)
	case "home":
		return reply("dashboard", h.service.Home(ctx))
	case "dashboard":
		return reply("dashboard", h.service.Dashboard())
	case "bookmark":
		var p bookmarkPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return errorMessage("invalid bookmark payload")
		}
		on, err := h.service.ToggleBookmark(ctx, p.QuestionID)
		if err != nil {
			return failure(err)
		}
		return reply("bookmark", bookmarkResult{QuestionID: p.QuestionID, Bookmarked: on})
	case "clear":
		var p clearPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return errorMessage("invalid clear payload")
		}
		if err := h.service.ClearData(ctx, p.Confirmed); err != nil {
			return failure(err)
		}
		return reply("dashboard", h.service.Dashboard())
	case "category":
		var p categoryPayload
		if err := decode(inbound.Payload, &p); err != nil {
			return errorMessage("invalid category payload")
		}
		n := h.service.SetCategory(p.Category)
		return reply("category", categoryResult{Category: p.Category, Count: n})
	}
	return errorMessage("unsupported message type")
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(raw, v)
}

func reply(typ string, payload any) outboundMessage[any] {
	return outboundMessage[any]{Type: typ, Payload: payload}
}

func failure(err error) outboundMessage[any] {
	return errorMessage(err.Error())
}

func errorMessage(msg string) outboundMessage[any] {
	return reply("error", errorPayload{Message: msg})
}
