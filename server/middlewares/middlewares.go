package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key the Identity middleware stores the caller's
// id under.
const UserIDKey = "userId"

// Identity reads the caller's id from the "sub" header. The API gateway in
// front of this service validates the JWT and rewrites the token into the
// user's sub, so by the time a request reaches us the header is trusted. It
// returns 401 on a missing or malformed sub.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := c.GetHeader("sub")
		if sub == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"msg": "missing sub header",
			})
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"msg": "malformed sub header",
			})
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the caller id stored by Identity. It must only be called on
// routes behind the Identity middleware.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(UserIDKey)
}
