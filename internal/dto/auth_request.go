package dto

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,alphanum"`
	Nickname string `json:"nickname" binding:"required,min=1,max=50"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,alphanum"`
}

type UpdateNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,min=1,max=50"`
}

type SignInResponse struct {
	AccessToken string `json:"accessToken"`
}
