package model

import "github.com/VitaminP8/memberhub/models"

// Входные типы GraphQL

type UserBody struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (b UserBody) Patch() models.UserPatch {
	return models.UserPatch{FirstName: b.FirstName, LastName: b.LastName, Email: b.Email}
}

type ProfileBody struct {
	Avatar       *string `json:"avatar"`
	Sex          *string `json:"sex"`
	Birthday     *int    `json:"birthday"`
	Country      *string `json:"country"`
	Street       *string `json:"street"`
	City         *string `json:"city"`
	MemberTypeID *string `json:"memberTypeId"`
	UserID       *string `json:"userId"`
}

func (b ProfileBody) Patch() models.ProfilePatch {
	return models.ProfilePatch{
		Avatar:       b.Avatar,
		Sex:          b.Sex,
		Birthday:     b.Birthday,
		Country:      b.Country,
		Street:       b.Street,
		City:         b.City,
		MemberTypeID: b.MemberTypeID,
		UserID:       b.UserID,
	}
}

type PostBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	UserID  *string `json:"userId"`
}

func (b PostBody) Patch() models.PostPatch {
	return models.PostPatch{Title: b.Title, Content: b.Content, UserID: b.UserID}
}

type MemberTypeBody struct {
	Discount        *int `json:"discount"`
	MonthPostsLimit *int `json:"monthPostsLimit"`
}

func (b MemberTypeBody) Patch() models.MemberTypePatch {
	return models.MemberTypePatch{Discount: b.Discount, MonthPostsLimit: b.MonthPostsLimit}
}
