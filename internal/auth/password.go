package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used for new password hashes.
const DefaultBcryptCost = 12

// HashPassword hashes a password with bcrypt. Each call salts independently,
// so hashing the same password twice yields different digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a password against a stored bcrypt hash.
// Any failure, including a malformed stored hash, reports false; callers
// cannot distinguish a bad password from a bad digest.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
