package tool

import (
	"github.com/gin-gonic/gin"
)

func FastReturnError(msg string) gin.H {
	return gin.H{
		"error": msg,
	}
}

func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{
		"data": data,
	}
}

// FastReturnErrorWithData keeps the error envelope but attaches the structured result.
func FastReturnErrorWithData(msg string, data any) gin.H {
	return gin.H{
		"error": msg,
		"data":  data,
	}
}
