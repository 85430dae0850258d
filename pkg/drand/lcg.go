package drand

// LCG 参数（Numerical Recipes），模 2^32 由 uint32 溢出实现
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// LCG 线性同余生成器，不具备密码学强度
type LCG struct {
	state uint32
}

// NewLCG 创建生成器
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Next 推进一步并返回 [0,1) 区间的值
func (l *LCG) Next() float64 {
	return float64(l.NextUint32()) / (1 << 32)
}

// NextUint32 推进一步并返回原始状态
func (l *LCG) NextUint32() uint32 {
	l.state = lcgMultiplier*l.state + lcgIncrement
	return l.state
}

// Intn 推进一步并缩放到 [0,n)
func (l *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int((uint64(l.NextUint32()) * uint64(n)) >> 32)
}

// Seed 取随机值前8个十六进制字符作为32位种子
// 与 parseInt(hex.slice(0, 8), 16) 一致：解析到第一个非十六进制字符为止，没有可解析字符时为0
func Seed(randomness string) uint32 {
	if len(randomness) > 8 {
		randomness = randomness[:8]
	}

	var seed uint32
	for i := 0; i < len(randomness); i++ {
		v, ok := hexValue(randomness[i])
		if !ok {
			break
		}
		seed = seed<<4 | uint32(v)
	}
	return seed
}

// BonusFromRandomness 由信标随机值计算 [0,100) 的奖励积分
func BonusFromRandomness(randomness string) int {
	return NewLCG(Seed(randomness)).Intn(100)
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
