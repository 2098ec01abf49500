package storage

import "sort"

// FollowerIndex - обратный индекс подписок: followee -> множество подписчиков.
// Собственной синхронизации нет, доступ защищает DB.mu.
type FollowerIndex struct {
	followers map[string]map[string]struct{}
}

func NewFollowerIndex() *FollowerIndex {
	return &FollowerIndex{followers: make(map[string]map[string]struct{})}
}

func (ix *FollowerIndex) add(follower, followee string) {
	set, ok := ix.followers[followee]
	if !ok {
		set = make(map[string]struct{})
		ix.followers[followee] = set
	}
	set[follower] = struct{}{}
}

func (ix *FollowerIndex) remove(follower, followee string) {
	set, ok := ix.followers[followee]
	if !ok {
		return
	}
	delete(set, follower)
	if len(set) == 0 {
		delete(ix.followers, followee)
	}
}

// Followers возвращает копию множества подписчиков, отсортированную по id
func (ix *FollowerIndex) Followers(followee string) []string {
	set := ix.followers[followee]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// update переносит в индекс разницу между старым и новым списком подписок пользователя
func (ix *FollowerIndex) update(userID string, before, after []string) {
	was := make(map[string]struct{}, len(before))
	for _, id := range before {
		was[id] = struct{}{}
	}
	now := make(map[string]struct{}, len(after))
	for _, id := range after {
		now[id] = struct{}{}
	}

	for id := range was {
		if _, ok := now[id]; !ok {
			ix.remove(userID, id)
		}
	}
	for id := range now {
		if _, ok := was[id]; !ok {
			ix.add(userID, id)
		}
	}
}
