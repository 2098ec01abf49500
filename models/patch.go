package models

// Патчи частичного обновления: nil-поле означает "не менять"

type UserPatch struct {
	FirstName           *string
	LastName            *string
	Email               *string
	SubscribedToUserIds *IDList
}

func (p UserPatch) Apply(u User) User {
	u = u.Clone()
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.SubscribedToUserIds != nil {
		u.SubscribedToUserIds = p.SubscribedToUserIds.Clone()
	}
	return u
}

type ProfilePatch struct {
	Avatar       *string
	Sex          *string
	Birthday     *int
	Country      *string
	Street       *string
	City         *string
	MemberTypeID *string
	UserID       *string
}

func (p ProfilePatch) Apply(pr Profile) Profile {
	if p.Avatar != nil {
		pr.Avatar = *p.Avatar
	}
	if p.Sex != nil {
		pr.Sex = *p.Sex
	}
	if p.Birthday != nil {
		pr.Birthday = *p.Birthday
	}
	if p.Country != nil {
		pr.Country = *p.Country
	}
	if p.Street != nil {
		pr.Street = *p.Street
	}
	if p.City != nil {
		pr.City = *p.City
	}
	if p.MemberTypeID != nil {
		pr.MemberTypeID = *p.MemberTypeID
	}
	if p.UserID != nil {
		pr.UserID = *p.UserID
	}
	return pr
}

type PostPatch struct {
	Title   *string
	Content *string
	UserID  *string
}

func (p PostPatch) Apply(post Post) Post {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.UserID != nil {
		post.UserID = *p.UserID
	}
	return post
}

type MemberTypePatch struct {
	Discount        *int
	MonthPostsLimit *int
}

func (p MemberTypePatch) Apply(m MemberType) MemberType {
	if p.Discount != nil {
		m.Discount = *p.Discount
	}
	if p.MonthPostsLimit != nil {
		m.MonthPostsLimit = *p.MonthPostsLimit
	}
	return m
}
