package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rickchristie/researcher"
	"github.com/rickchristie/researcher/session"
)

type credentialForm struct {
	Credential string `form:"credential" json:"credential" binding:"notblank"`
}

type questionForm struct {
	Question string `form:"question" json:"question" binding:"notblank"`
}

// User-facing notices.
const (
	noticeMissingCredential = "Please add your API key to continue."
	noticeEmptyQuestion     = "Please enter a question."
	noticeBusy              = "Still working on the previous question."
)

type pageData struct {
	SessionID string
	Ready     bool
	Messages  []session.Message
	Notice    string
}

// render shows the page. Until a credential is accepted the missing-credential notice
// stands unless a more specific one is given.
func (s *Server) render(c *gin.Context, status int, sess *session.Session, notice string) {
	ready := sess.State() != session.StateAwaitingCredential
	if !ready && notice == "" {
		notice = noticeMissingCredential
	}
	c.HTML(status, "index.html", pageData{
		SessionID: sess.ID(),
		Ready:     ready,
		Messages:  sess.Messages(),
		Notice:    notice,
	})
}

func (s *Server) index(c *gin.Context) {
	s.render(c, http.StatusOK, currentSession(c), "")
}

func (s *Server) submitCredential(c *gin.Context) {
	sess := currentSession(c)
	var form credentialForm
	if err := c.ShouldBind(&form); err != nil {
		s.render(c, http.StatusBadRequest, sess, noticeMissingCredential)
		return
	}

	status, notice := s.setCredential(c, sess, form.Credential)
	if status != http.StatusOK {
		s.render(c, status, sess, notice)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) submitQuestion(c *gin.Context) {
	sess := currentSession(c)
	var form questionForm
	if err := c.ShouldBind(&form); err != nil {
		s.render(c, http.StatusBadRequest, sess, noticeEmptyQuestion)
		return
	}

	status, notice, _ := s.submit(c, sess, form.Question)
	if status != http.StatusOK {
		s.render(c, status, sess, notice)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) reset(c *gin.Context) {
	sess := currentSession(c)
	if err := sess.Reset(); err != nil {
		s.render(c, http.StatusConflict, sess, noticeBusy)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) apiMessages(c *gin.Context) {
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"session":  sess.ID(),
		"state":    sess.State().String(),
		"messages": sess.Messages(),
	})
}

func (s *Server) apiCredential(c *gin.Context) {
	sess := currentSession(c)
	var form credentialForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": noticeMissingCredential})
		return
	}

	status, notice := s.setCredential(c, sess, form.Credential)
	if status != http.StatusOK {
		c.JSON(status, gin.H{"error": notice})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": sess.State().String()})
}

func (s *Server) apiChat(c *gin.Context) {
	sess := currentSession(c)
	var form questionForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": noticeEmptyQuestion})
		return
	}

	status, notice, reply := s.submit(c, sess, form.Question)
	if status != http.StatusOK {
		c.JSON(status, gin.H{"error": notice})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// setCredential maps SetCredential failures to a status and a notice.
func (s *Server) setCredential(c *gin.Context, sess *session.Session, credential string) (int, string) {
	err := sess.SetCredential(c.Request.Context(), credential)
	var initErr *researcher.InitializationError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, researcher.ErrMissingCredential):
		return http.StatusBadRequest, noticeMissingCredential
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict, noticeBusy
	case errors.As(err, &initErr):
		_ = c.Error(err)
		s.logger.Warn("credential rejected", "session", sess.ID(), "error", err)
		return http.StatusUnprocessableEntity, "Could not start the assistant: " + initErr.Err.Error()
	default:
		_ = c.Error(err)
		return http.StatusInternalServerError, err.Error()
	}
}

// submit maps Submit results to a status and a notice. A failed turn is still 200: the
// failure is already part of the transcript.
func (s *Server) submit(c *gin.Context, sess *session.Session, question string) (int, string, session.Message) {
	reply, err := sess.Submit(c.Request.Context(), question)
	var turnErr *researcher.TurnError
	switch {
	case err == nil:
		return http.StatusOK, "", reply
	case errors.As(err, &turnErr):
		// Session already logged the failure.
		return http.StatusOK, "", reply
	case errors.Is(err, session.ErrNotReady):
		return http.StatusPreconditionFailed, noticeMissingCredential, reply
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict, noticeBusy, reply
	case errors.Is(err, session.ErrEmptyQuestion):
		return http.StatusBadRequest, noticeEmptyQuestion, reply
	default:
		_ = c.Error(err)
		return http.StatusInternalServerError, err.Error(), reply
	}
}
