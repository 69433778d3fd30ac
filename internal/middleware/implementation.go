package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/akolanti/PDFMentor/internal/adapter/utils"
	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/handlers"
	"github.com/akolanti/PDFMentor/internal/metrics"
)

const clientCookieName = "pdfmentor_client"

func injectTrace(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Injecting trace middleware")
	req := re.req
	if req == nil {
		//this is a bad request
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(`X-Trace-Id`, trace)
	re.req = req.WithContext(ctx)

	re.logger.Debug("trace middleware injected")
	return re
}

// resolveClient pins down whose question quota this request spends.
// An explicit X-Client-Id header wins, then the cookie, then a fresh
// identity that travels back in a cookie so the browser keeps it.
func resolveClient(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Resolving client identity")

	clientId := re.req.Header.Get("X-Client-Id")
	if clientId == "" {
		if cookie, err := re.req.Cookie(clientCookieName); err == nil && cookie.Value != "" {
			clientId = cookie.Value
		}
	}
	if clientId == "" {
		clientId = utils.GetNewUUID()
		http.SetCookie(re.writer, &http.Cookie{
			Name:     clientCookieName,
			Value:    clientId,
			Path:     "/",
			Expires:  time.Now().Add(config.RateLimitWindow * 24),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	ctx := context.WithValue(re.req.Context(), config.CLIENT_ID_KEY, clientId)
	re.req = re.req.WithContext(ctx)
	re.logger.Debug("Client identity resolved")
	return re
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Rate limiter middleware")
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !limiterInstance.GetLimiter(ip).Allow() {
		re.logger.Error("Too many requests", "Rate Limiter exceeded", ip)
		metrics.CountRateLimitRejection()
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded. Slow down bruh",
		}
		return re
	}
	re.logger.Debug("Rate limiter middleware authorized")
	return re
}

func handleBadRequest(re requestResponseStruct) bool {
	if re.badRequest.isBadRequest {
		re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
		handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.errorMessage)
		return false
	}
	return true
}
