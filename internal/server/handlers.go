package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/logging"
	"github.com/zephyrtronium/calc/internal/monitoring"
)

// FormulaRequest is the body of the evaluate and tokens endpoints.
type FormulaRequest struct {
	Formula *string `json:"formula" binding:"required"`
}

// TokenJSON is one token in a tokens response.
type TokenJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	Pos  int    `json:"pos"`
}

// Health handles health check requests.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Evaluate handles formula evaluation.
func (s *Server) Evaluate(c *gin.Context) {
	formula, ok := s.bindFormula(c)
	if !ok {
		return
	}

	d, err := s.eval(formula)
	if err == nil {
		result := calc.Canonical(d)
		s.metrics.RecordEvaluation(monitoring.ResultOK, len(formula))
		s.logger.Debug("Evaluated formula", logging.Formula(formula), zap.String("result", result))
		c.JSON(http.StatusOK, gin.H{"result": result})
		return
	}

	kind := calc.KindOf(err)
	s.metrics.RecordEvaluation(kind.String(), len(formula))
	s.logger.Debug("Formula failed", logging.Formula(formula), zap.Error(err))
	c.JSON(http.StatusUnprocessableEntity, errorBody(err))
}

// Tokens handles tokenization for highlighting. A formula that fails to
// tokenize still returns the tokens before the failure.
func (s *Server) Tokens(c *gin.Context) {
	formula, ok := s.bindFormula(c)
	if !ok {
		return
	}

	toks, err := calc.Tokens(formula)
	body := gin.H{"tokens": lo.Map(toks, func(t calc.Token, _ int) TokenJSON {
		return TokenJSON{Kind: t.Kind.String(), Text: t.Text, Pos: t.Pos}
	})}
	if err != nil {
		for k, v := range errorBody(err) {
			body[k] = v
		}
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// Stats returns running totals of requests and evaluations.
func (s *Server) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// bindFormula reads the formula from the request body, responding with 400
// and returning false when the body is unusable.
func (s *Server) bindFormula(c *gin.Context) (string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyLen(s.config.Eval.MaxFormulaLen))
	var req FormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return "", false
	}
	if n := len(*req.Formula); n > s.config.Eval.MaxFormulaLen {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("formula is %d bytes, limit is %d", n, s.config.Eval.MaxFormulaLen),
		})
		return "", false
	}
	return *req.Formula, true
}

// maxBodyLen is the largest request body accepted for a formula limit of n
// bytes. Each formula byte may take up to six bytes once JSON-escaped.
func maxBodyLen(n int) int64 {
	return int64(n)*6 + 1024
}

func (s *Server) eval(formula string) (decimal.Decimal, error) {
	e, err := calc.Parse(formula)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return s.calc.Eval(e)
}

func errorBody(err error) gin.H {
	body := gin.H{
		"error": err.Error(),
		"kind":  calc.KindOf(err).String(),
	}
	var ierr calc.InputError
	if errors.As(err, &ierr) {
		body["pos"] = ierr.Pos()
	}
	return body
}
