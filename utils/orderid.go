package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// 订单ID序列号（同一毫秒内保证唯一）
var orderIDSeq uint64

// GenerateOrderID 生成客户端订单ID
// 格式: {价格整数}_{方向首字母}_{毫秒时间戳+序列}
// 价格整数 = price * 10^decimals，方向首字母 B/S
func GenerateOrderID(price float64, side string, decimals int) string {
	priceInt := int64(math.Round(price * math.Pow10(decimals)))

	sideChar := "B"
	if strings.HasPrefix(strings.ToUpper(side), "S") {
		sideChar = "S"
	}

	// 毫秒时间戳后移3位，叠加序列号保证同毫秒内唯一
	seq := atomic.AddUint64(&orderIDSeq, 1) % 1000
	ts := time.Now().UnixMilli()*1000 + int64(seq)

	return fmt.Sprintf("%d_%s_%d", priceInt, sideChar, ts)
}

// ParseOrderID 解析客户端订单ID
// 返回价格、方向（BUY/SELL）、时间戳（含序列），以及是否合法
func ParseOrderID(clientOID string, decimals int) (float64, string, int64, bool) {
	parts := strings.Split(clientOID, "_")
	if len(parts) != 3 {
		return 0, "", 0, false
	}

	priceInt, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", 0, false
	}
	price := float64(priceInt) / math.Pow10(decimals)

	var side string
	switch parts[1] {
	case "B":
		side = "BUY"
	case "S":
		side = "SELL"
	default:
		return 0, "", 0, false
	}

	ts, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || ts <= 0 {
		return 0, "", 0, false
	}

	return price, side, ts, true
}
