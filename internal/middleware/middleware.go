package middleware

import (
	"net/http"
	"strconv"

	"github.com/rizkyfm/docchat/internal/handlers"
	"github.com/rizkyfm/docchat/internal/metrics"
	"github.com/rizkyfm/docchat/pkg/logx"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logx.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var ChatHandler = Wrap(handlers.ChatHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var PostIngestHandler = Wrap(handlers.PostIngestHandler)
var GetMessagesHandler = Wrap(handlers.GetMessagesHandler)
var PostPromptHandler = Wrap(handlers.PostPromptHandler)
var GetPromptsHandler = Wrap(handlers.GetPromptsHandler)
var PinPromptHandler = Wrap(handlers.PinPromptHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logx.NewLogger("middleware")
	re.logger.Debug("New request received")

	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	return re
}
