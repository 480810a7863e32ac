package api

import (
	"strconv" // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
)

// uintParam parses a positive id from the named path parameter
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

// uintQueryList parses every value of a repeated query parameter
func uintQueryList(c *gin.Context, name string) ([]uint, bool) {
	var ids []uint
	for _, raw := range c.QueryArray(name) {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			return nil, false
		}
		ids = append(ids, uint(v))
	}
	return ids, true
}
