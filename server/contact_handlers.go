package server

import (
	"net/http"
	"net/mail"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/model"
)

const maxContactMessage = 5000

func validateContact(req model.ContactRequest) error {
	if err := required("senderName", req.SenderName); err != nil {
		return err
	}
	if err := required("message", req.Message); err != nil {
		return err
	}
	if len(req.Message) > maxContactMessage {
		return perrors.Wrapf(perrors.ErrInvalidRequest, "message must be at most %d characters", maxContactMessage)
	}
	if _, err := mail.ParseAddress(req.SenderEmail); err != nil {
		return perrors.Wrapf(perrors.ErrInvalidRequest, "senderEmail is not a valid email address")
	}
	return nil
}

// SendContactHandler stores a message from the public contact form.
func (s *Server) SendContactHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.ContactRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, s.log, err)
			return
		}
		if err := validateContact(req); err != nil {
			writeError(w, s.log, err)
			return
		}
		msg, err := s.content.Messages.Create(model.ContactMessage{
			SenderName:  req.SenderName,
			SenderEmail: req.SenderEmail,
			Subject:     req.Subject,
			Message:     req.Message,
			IPAddress:   clientIP(r),
			CreatedAt:   timestamp(),
		})
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		s.log.Info().Str("from", msg.SenderEmail).Msg("contact message received")
		writeSuccess(w, "Message sent successfully", msg)
	}
}

func (s *Server) ListMessagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, "Messages retrieved successfully", s.content.Messages.List())
	}
}

func (s *Server) MarkMessageReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		msg, err := s.content.Messages.Get(id)
		if err != nil {
			writeFailure(w, http.StatusNotFound, "Message not found")
			return
		}
		msg.IsRead = true
		if msg, err = s.content.Messages.Update(id, msg); err != nil {
			writeError(w, s.log, err)
			return
		}
		writeSuccess(w, "Message marked as read", msg)
	}
}

func (s *Server) DeleteMessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.content.Messages.Delete(r.PathValue("id")); err != nil {
			writeFailure(w, http.StatusNotFound, "Message not found")
			return
		}
		writeSuccess(w, "Message deleted successfully", nil)
	}
}
