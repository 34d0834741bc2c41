package supabase

// StoreError is the error body returned by the store's REST interface.
type StoreError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

type AuthUserMetadata struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type AuthUser struct {
	Id        string           `json:"id"`
	Email     string           `json:"email"`
	CreatedAt string           `json:"created_at"`
	Metadata  AuthUserMetadata `json:"user_metadata"`
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        AuthUser `json:"user"`
}

type AuthError struct {
	Message          string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}
