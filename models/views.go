package models

// Составные (денормализованные) представления для чтения. Не сохраняются.

// AllAboutUser - пользователь вместе с профилем, постами и типом членства
type AllAboutUser struct {
	User
	Profile    *Profile    `json:"profile"`
	Posts      []Post      `json:"posts"`
	MemberType *MemberType `json:"memberType"`
}

// UserWithSubs - входящие и исходящие подписки пользователя
type UserWithSubs struct {
	User
	UserSubscribedTo []string `json:"userSubscribedTo"`
	SubscribedToUser []string `json:"subscribedToUser"`
}

// UserSubsAndProfile - подписчики пользователя и его профиль
type UserSubsAndProfile struct {
	User
	UserSubscribedTo []string `json:"userSubscribedTo"`
	Profile          *Profile `json:"profile"`
}

// UserPostsSubs - исходящие подписки пользователя и его посты
type UserPostsSubs struct {
	User
	SubscribedToUser []string `json:"subscribedToUser"`
	Posts            []Post   `json:"posts"`
}
