package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// listRuns 查询最近的回测运行记录
func (ws *WebServer) listRuns(c *gin.Context) {
	if ws.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储未启用"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := ws.store.QueryRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询运行记录失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// listTrades 查询指定运行的成交记录
func (ws *WebServer) listTrades(c *gin.Context) {
	if ws.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储未启用"})
		return
	}

	runID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的运行ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	trades, err := ws.store.QueryTrades(runID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询成交记录失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"count":  len(trades),
		"trades": trades,
	})
}

// listMetrics 查询指定运行的分标的绩效
func (ws *WebServer) listMetrics(c *gin.Context) {
	if ws.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储未启用"})
		return
	}

	runID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的运行ID"})
		return
	}

	records, err := ws.store.QueryMetrics(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询绩效记录失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":  runID,
		"metrics": records,
	})
}

// getEquityCurve 查询指定运行与标的的权益曲线
func (ws *WebServer) getEquityCurve(c *gin.Context) {
	if ws.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "存储未启用"})
		return
	}

	runID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的运行ID"})
		return
	}
	symbol := c.Param("symbol")

	points, err := ws.store.QueryEquityCurve(runID, symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询权益曲线失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"symbol": symbol,
		"count":  len(points),
		"points": points,
	})
}
