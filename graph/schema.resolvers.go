package graph

import (
	"context"

	"github.com/VitaminP8/memberhub/graph/model"
	"github.com/VitaminP8/memberhub/models"
)

func (r *Resolver) Query() *queryResolver { return &queryResolver{r} }

func (r *Resolver) Mutation() *mutationResolver { return &mutationResolver{r} }

type queryResolver struct{ *Resolver }

type mutationResolver struct{ *Resolver }

func (r *queryResolver) Users(ctx context.Context) ([]models.User, error) {
	return r.Resolver.Users.List(ctx)
}

func (r *queryResolver) User(ctx context.Context, id string) (models.User, error) {
	return r.Resolver.Users.Get(ctx, id)
}

func (r *queryResolver) Profiles(ctx context.Context) ([]models.Profile, error) {
	return r.Resolver.Profiles.List(ctx)
}

func (r *queryResolver) Profile(ctx context.Context, id string) (models.Profile, error) {
	return r.Resolver.Profiles.Get(ctx, id)
}

func (r *queryResolver) Posts(ctx context.Context) ([]models.Post, error) {
	return r.Resolver.Posts.List(ctx)
}

func (r *queryResolver) Post(ctx context.Context, id string) (models.Post, error) {
	return r.Resolver.Posts.Get(ctx, id)
}

func (r *queryResolver) MemberTypes(ctx context.Context) ([]models.MemberType, error) {
	return r.Resolver.MemberTypes.List(ctx)
}

func (r *queryResolver) MemberType(ctx context.Context, id string) (models.MemberType, error) {
	return r.Resolver.MemberTypes.Get(ctx, id)
}

func (r *queryResolver) GetAllAboutUsers(ctx context.Context) ([]models.AllAboutUser, error) {
	return r.Views.GetAllAboutUsers(ctx)
}

func (r *queryResolver) GetAllAboutUser(ctx context.Context, id string) (models.AllAboutUser, error) {
	return r.Views.GetAllAboutUser(ctx, id)
}

func (r *queryResolver) GetUsersSubsAndProfile(ctx context.Context) ([]models.UserSubsAndProfile, error) {
	return r.Views.GetUsersSubsAndProfile(ctx)
}

func (r *queryResolver) GetUserPostsSubs(ctx context.Context, id string) (models.UserPostsSubs, error) {
	return r.Views.GetUserPostsSubs(ctx, id)
}

func (r *queryResolver) GetUsersWithSubs(ctx context.Context) ([]models.UserWithSubs, error) {
	return r.Views.GetUsersWithSubs(ctx)
}

func (r *queryResolver) Followers(ctx context.Context, id string) ([]string, error) {
	return r.Subscriptions.Followers(ctx, id)
}

func (r *mutationResolver) CreateUser(ctx context.Context, input model.UserBody) (models.User, error) {
	return r.Resolver.Users.Create(ctx, input.Patch().Apply(models.User{}))
}

func (r *mutationResolver) UpdateUser(ctx context.Context, id string, body model.UserBody) (models.User, error) {
	return r.Resolver.Users.Update(ctx, id, body.Patch())
}

func (r *mutationResolver) DeleteUser(ctx context.Context, id string) (models.User, error) {
	return r.Resolver.Users.Delete(ctx, id)
}

// SubscribeTo - id подписывается на userId
func (r *mutationResolver) SubscribeTo(ctx context.Context, id, userID string) (models.User, error) {
	return r.Subscriptions.Subscribe(ctx, id, userID)
}

func (r *mutationResolver) UnsubscribeFrom(ctx context.Context, id, userID string) (models.User, error) {
	return r.Subscriptions.Unsubscribe(ctx, id, userID)
}

func (r *mutationResolver) CreateProfile(ctx context.Context, input model.ProfileBody) (models.Profile, error) {
	return r.Resolver.Profiles.Create(ctx, input.Patch().Apply(models.Profile{}))
}

func (r *mutationResolver) UpdateProfile(ctx context.Context, id string, body model.ProfileBody) (models.Profile, error) {
	return r.Resolver.Profiles.Update(ctx, id, body.Patch())
}

func (r *mutationResolver) DeleteProfile(ctx context.Context, id string) (models.Profile, error) {
	return r.Resolver.Profiles.Delete(ctx, id)
}

func (r *mutationResolver) CreatePost(ctx context.Context, input model.PostBody) (models.Post, error) {
	return r.Resolver.Posts.Create(ctx, input.Patch().Apply(models.Post{}))
}

func (r *mutationResolver) UpdatePost(ctx context.Context, id string, body model.PostBody) (models.Post, error) {
	return r.Resolver.Posts.Update(ctx, id, body.Patch())
}

func (r *mutationResolver) DeletePost(ctx context.Context, id string) (models.Post, error) {
	return r.Resolver.Posts.Delete(ctx, id)
}

func (r *mutationResolver) UpdateMemberType(ctx context.Context, id string, body model.MemberTypeBody) (models.MemberType, error) {
	return r.Resolver.MemberTypes.Update(ctx, id, body.Patch())
}
