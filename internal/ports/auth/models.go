package auth

// Claims representa la identidad del caller.
type Claims struct {
	UserID int64
	Email  string
}
