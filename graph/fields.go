package graph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/VitaminP8/memberhub/graph/model"
	"github.com/VitaminP8/memberhub/internal/apperror"
)

// result приводит пару (значение, ошибка) резолвера к общему виду
func result[T any](v T, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func idArg(args arguments, name string) string {
	switch v := args[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// inputArg раскладывает input-объект по полям типизированной структуры
func inputArg[T any](args arguments, name string) (T, error) {
	var v T
	raw, err := json.Marshal(args[name])
	if err != nil {
		return v, apperror.New(apperror.KindValidation, "invalid argument "+name, err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, apperror.New(apperror.KindValidation, "invalid argument "+name, err)
	}
	return v, nil
}

func (r *Resolver) queryFields() map[string]fieldFunc {
	q := r.Query()
	return map[string]fieldFunc{
		"users": func(ctx context.Context, _ arguments) (interface{}, error) {
			return result(q.Users(ctx))
		},
		"user": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(q.User(ctx, idArg(args, "id")))
		},
		"profiles": func(ctx context.Context, _ arguments) (interface{}, error) {
			return result(q.Profiles(ctx))
		},
		"profile": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(q.Profile(ctx, idArg(args, "id")))
		},
		"posts": func(ctx context.Context, _ arguments) (interface{}, error) {
			return result(q.Posts(ctx))
		},
		"post": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(q.Post(ctx, idArg(args, "id")))
		},
		"memberTypes": func(ctx context.Context, _ arguments) (interface{}, error) {
			return result(q.MemberTypes(ctx))
		},
		"memberType": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(q.MemberType(ctx, idArg(args, "id")))
		},
		"getAllAboutUsers": func(ctx context.Context, _ arguments) (interface{}, error) {
			return result(q.GetAllAboutUsers(ctx))
		},
		"getAllAboutUser": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(q.GetAllAboutUser(ctx, idArg(args, "id")))
		},
		"getUsersSubsAndProfile": func(ctx context.Context, _ arguments) (interface{}, error) {
			return result(q.GetUsersSubsAndProfile(ctx))
		},
		"getUserPostsSubs": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(q.GetUserPostsSubs(ctx, idArg(args, "id")))
		},
		"getUsersWithSubs": func(ctx context.Context, _ arguments) (interface{}, error) {
			return result(q.GetUsersWithSubs(ctx))
		},
		"followers": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(q.Followers(ctx, idArg(args, "id")))
		},
	}
}

func (r *Resolver) mutationFields() map[string]fieldFunc {
	m := r.Mutation()
	return map[string]fieldFunc{
		"createUser": func(ctx context.Context, args arguments) (interface{}, error) {
			input, err := inputArg[model.UserBody](args, "input")
			if err != nil {
				return nil, err
			}
			return result(m.CreateUser(ctx, input))
		},
		"updateUser": func(ctx context.Context, args arguments) (interface{}, error) {
			body, err := inputArg[model.UserBody](args, "body")
			if err != nil {
				return nil, err
			}
			return result(m.UpdateUser(ctx, idArg(args, "id"), body))
		},
		"deleteUser": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(m.DeleteUser(ctx, idArg(args, "id")))
		},
		"subscribeTo": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(m.SubscribeTo(ctx, idArg(args, "id"), idArg(args, "userId")))
		},
		"unsubscribeFrom": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(m.UnsubscribeFrom(ctx, idArg(args, "id"), idArg(args, "userId")))
		},
		"createProfile": func(ctx context.Context, args arguments) (interface{}, error) {
			input, err := inputArg[model.ProfileBody](args, "input")
			if err != nil {
				return nil, err
			}
			return result(m.CreateProfile(ctx, input))
		},
		"updateProfile": func(ctx context.Context, args arguments) (interface{}, error) {
			body, err := inputArg[model.ProfileBody](args, "body")
			if err != nil {
				return nil, err
			}
			return result(m.UpdateProfile(ctx, idArg(args, "id"), body))
		},
		"deleteProfile": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(m.DeleteProfile(ctx, idArg(args, "id")))
		},
		"createPost": func(ctx context.Context, args arguments) (interface{}, error) {
			input, err := inputArg[model.PostBody](args, "input")
			if err != nil {
				return nil, err
			}
			return result(m.CreatePost(ctx, input))
		},
		"updatePost": func(ctx context.Context, args arguments) (interface{}, error) {
			body, err := inputArg[model.PostBody](args, "body")
			if err != nil {
				return nil, err
			}
			return result(m.UpdatePost(ctx, idArg(args, "id"), body))
		},
		"deletePost": func(ctx context.Context, args arguments) (interface{}, error) {
			return result(m.DeletePost(ctx, idArg(args, "id")))
		},
		"updateMemberType": func(ctx context.Context, args arguments) (interface{}, error) {
			body, err := inputArg[model.MemberTypeBody](args, "body")
			if err != nil {
				return nil, err
			}
			return result(m.UpdateMemberType(ctx, idArg(args, "id"), body))
		},
	}
}
