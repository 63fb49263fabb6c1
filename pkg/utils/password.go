package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost 测试里可调低
var PasswordCost = bcrypt.DefaultCost

// HashPassword 超过 72 字节的密码 bcrypt 会报错
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
