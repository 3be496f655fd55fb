package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"shiftwatch/internal/shared/contextutil"
	"shiftwatch/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// DeviceAuth validates the bearer device token the tracking agent presents.
// The token is an HMAC JWT carrying a device_id claim, signed with
// DEVICE_TOKEN_SECRET.
func DeviceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("DEVICE_TOKEN_SECRET")), nil
		})

		if err != nil || !token.Valid {
			message := "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				message = "Token expired"
			}
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", nil)
			c.Abort()
			return
		}

		deviceID, ok := claims["device_id"].(string)
		if !ok || deviceID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Device ID not found in token", nil)
			c.Abort()
			return
		}

		c.Set("device_id", deviceID)
		ctx := contextutil.WithDeviceID(c.Request.Context(), deviceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
