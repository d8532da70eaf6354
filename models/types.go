package models

import "errors"

// Domain types

// User is a stored account. PasswordHash is a bcrypt digest and never
// leaves the process.
type User struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	UserName      string  `json:"userName"`
	PasswordHash  string  `json:"-"`
	Status        string  `json:"status"`
	FullName      string  `json:"fullName"`
	PhoneNumber   string  `json:"phoneNumber"`
	DOB           string  `json:"dob"`
	Level         int     `json:"level"`
	Balance       float64 `json:"balance"`
	WalletAddress string  `json:"walletAddress"`
}

// Profile is a User without credentials. It is what token claims and
// detail responses carry.
type Profile struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	UserName      string  `json:"userName"`
	Status        string  `json:"status"`
	FullName      string  `json:"fullName"`
	PhoneNumber   string  `json:"phoneNumber"`
	DOB           string  `json:"dob"`
	Level         int     `json:"level"`
	Balance       float64 `json:"balance"`
	WalletAddress string  `json:"walletAddress"`
}

// UserSummary is the public listing projection.
type UserSummary struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	FullName      string  `json:"fullName"`
	Level         int     `json:"level"`
	Balance       float64 `json:"balance"`
	WalletAddress string  `json:"walletAddress"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:            u.ID,
		Email:         u.Email,
		UserName:      u.UserName,
		Status:        u.Status,
		FullName:      u.FullName,
		PhoneNumber:   u.PhoneNumber,
		DOB:           u.DOB,
		Level:         u.Level,
		Balance:       u.Balance,
		WalletAddress: u.WalletAddress,
	}
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:            u.ID,
		Status:        u.Status,
		FullName:      u.FullName,
		Level:         u.Level,
		Balance:       u.Balance,
		WalletAddress: u.WalletAddress,
	}
}

// Match is a bettable event. Status fields and WinningTeam are opaque.
type Match struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Team1       string  `json:"team1"`
	Team2       string  `json:"team2"`
	Option1     string  `json:"option1"`
	Option2     string  `json:"option2"`
	Rate1       float64 `json:"rate1"`
	Rate2       float64 `json:"rate2"`
	Status1     string  `json:"status1"`
	Status2     string  `json:"status2"`
	Claim       string  `json:"claim"`
	Time        string  `json:"time"`
	Countdown   string  `json:"countdown"`
	Iframe      string  `json:"iframe"`
	Sum1        float64 `json:"sum1"`
	Sum2        float64 `json:"sum2"`
	Status      string  `json:"status"`
	CreatorID   string  `json:"creatorId"`
	WinningTeam string  `json:"winningTeam"`
}

// Order is a bet placed against a match. MatchID and UserWallet are
// unenforced back-references.
type Order struct {
	ID           string  `json:"id"`
	MatchID      string  `json:"matchId"`
	MatchName    string  `json:"matchName"`
	Team         string  `json:"team"`
	Option       string  `json:"option"`
	Amount       float64 `json:"amount"`
	UserWallet   string  `json:"userWallet"`
	Token        string  `json:"token"`
	Timestamp    string  `json:"timestamp"`
	Status       string  `json:"status"`
	TxHash       string  `json:"txHash"`
	Claim        string  `json:"claim"`
	Refund       string  `json:"refund"`
	ProcessStart string  `json:"processStart"`
	CountdownEnd string  `json:"countdownEnd"`
	HasAutoBet   Flag    `json:"hasAutoBet"`
}

// Flag is a boolean that also decodes from 0 and 1, the form it is stored in
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	case "null":
	default:
		return errors.New("must be a boolean or 0/1")
	}
	return nil
}

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRequest is the body of POST /users and PUT /users/{id}. Password is
// a pointer so an absent field can be told apart from an empty one.
type UserRequest struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	UserName      string  `json:"userName"`
	Password      *string `json:"passWord"`
	Status        string  `json:"status"`
	FullName      string  `json:"fullName"`
	PhoneNumber   string  `json:"phoneNumber"`
	DOB           string  `json:"dob"`
	Level         int     `json:"level"`
	Balance       float64 `json:"balance"`
	WalletAddress string  `json:"walletAddress"`
}

// User converts the request into a record carrying the given digest.
func (r UserRequest) User(passwordHash string) User {
	return User{
		ID:            r.ID,
		Email:         r.Email,
		UserName:      r.UserName,
		PasswordHash:  passwordHash,
		Status:        r.Status,
		FullName:      r.FullName,
		PhoneNumber:   r.PhoneNumber,
		DOB:           r.DOB,
		Level:         r.Level,
		Balance:       r.Balance,
		WalletAddress: r.WalletAddress,
	}
}

// Response types

type LoginResponse struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}

type MeResponse struct {
	User Profile `json:"user"`
}

type SavedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
