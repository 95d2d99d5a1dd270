package service

// DefaultVoteWeight 未配置权重曲线时每票的权重
const DefaultVoteWeight = 1.0

// Weight 第 n 次（从 0 计）投同一餐厅时的权重：
// 未配置取 1.0；n 在范围内取 weights[n]；超出范围取最后一个。
func Weight(weights []float64, n int) float64 {
	if len(weights) == 0 {
		return DefaultVoteWeight
	}
	if n < 0 {
		n = 0
	}
	if n < len(weights) {
		return weights[n]
	}
	return weights[len(weights)-1]
}
