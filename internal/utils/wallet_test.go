package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{"0xFB6916095CA1DF60BB79CE92CE3EA74C37C5D359", "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"},
		{"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB", "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"},
		{"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb", "0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb"},
		// 非标准地址原样保留
		{"0xABC", "0xABC"},
		{"not-a-wallet", "not-a-wallet"},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaeg", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaeg"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ChecksumAddress(tc.in), tc.in)
	}
}

func TestNormalizeWalletAddress(t *testing.T) {
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", NormalizeWalletAddress("  0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed\n"))
	assert.Equal(t, "0xABC", NormalizeWalletAddress(" 0xABC "))
	assert.Equal(t, "", NormalizeWalletAddress("   "))
}

func TestIsHexAddress(t *testing.T) {
	assert.True(t, IsHexAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.False(t, IsHexAddress("5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.False(t, IsHexAddress("0xABC"))
}
