package gateway

import "fmt"

// 最小通貨単位の整数をプロバイダ境界用の10進文字列にする（4990 → "49.90"）。
// 内部は常に整数。文字列になるのはここだけ。
func FormatAmount(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
