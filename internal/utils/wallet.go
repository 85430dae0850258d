package utils

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// IsHexAddress 是否为 0x 开头的20字节十六进制地址
func IsHexAddress(address string) bool {
	if len(address) != 42 || (!strings.HasPrefix(address, "0x") && !strings.HasPrefix(address, "0X")) {
		return false
	}
	_, err := hex.DecodeString(address[2:])
	return err == nil
}

// ChecksumAddress 返回 EIP-55 校验和格式的地址，非法地址原样返回
func ChecksumAddress(address string) string {
	if !IsHexAddress(address) {
		return address
	}

	lower := strings.ToLower(address[2:])
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lower))
	hash := hex.EncodeToString(hasher.Sum(nil))

	result := make([]byte, 0, 42)
	result = append(result, '0', 'x')
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			c -= 'a' - 'A'
		}
		result = append(result, c)
	}
	return string(result)
}

// NormalizeWalletAddress 去除空白，合法地址转换为校验和格式
func NormalizeWalletAddress(address string) string {
	return ChecksumAddress(strings.TrimSpace(address))
}
