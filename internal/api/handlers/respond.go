// Package handlers содержит общие помощники HTTP-слоя: декодирование
// запросов и формирование JSON-ответов с единым форматом ошибок.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

const (
	// HeaderUserID заголовок аутентификации владельца компании
	HeaderUserID = "X-User-ID"

	msgInternalError = "внутренняя ошибка сервера"
)

// ErrNoUserID возвращается, когда заголовок X-User-ID отсутствует или некорректен
var ErrNoUserID = errors.New("handlers: missing or malformed X-User-ID header")

// ErrorResponse единый формат тела ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}

// DecodeJSON декодирует JSON тело запроса в dst
func DecodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// UserIDFromRequest извлекает ID пользователя из заголовка X-User-ID
func UserIDFromRequest(r *http.Request) (int64, error) {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return 0, ErrNoUserID
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrNoUserID
	}
	return userID, nil
}

// RespondJSON пишет JSON ответ с указанным статусом.
// nil body дает пустой объект {}.
func RespondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		body = struct{}{}
	}
	// Ошибку записи в закрытое соединение исправить уже нельзя
	_ = json.NewEncoder(w).Encode(body)
}

// RespondError пишет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondBadRequest пишет 400 Bad Request
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized пишет 401 Unauthorized
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden пишет 403 Forbidden
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound пишет 404 Not Found
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondConflict пишет 409 Conflict
func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

// RespondInternalError пишет 500 Internal Server Error
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}
