package middleware

import (
	"net/http"
)

// 429 + 1초 뒤 재시도 안내
func tooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	http.Error(w, "too many requests", http.StatusTooManyRequests)
}

// 동시 처리 중인 admin 요청 수 제한
// max 이하 슬롯만 허용, 대기 없이 바로 거절
func ConcurrencyLimit(max int) func(http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	slots := make(chan struct{}, max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case slots <- struct{}{}:
			default:
				tooManyRequests(w)
				return
			}
			defer func() { <-slots }()

			next.ServeHTTP(w, r)
		})
	}
}
