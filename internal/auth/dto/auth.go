package dto

import userdomain "novelog-backend/internal/user/domain"

type KakaoSignInRequest struct {
	Code string `json:"code" binding:"required"`
}

type KakaoSignInResponse struct {
	CustomToken string           `json:"custom_token"`
	User        *userdomain.User `json:"user"`
}
