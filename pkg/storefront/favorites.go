package storefront

import (
	"sync"
)

// Favorites is the shopper's saved product ids, in the order they were saved.
type Favorites struct {
	mu   sync.Mutex
	ids  []int64
	repo *Repository[[]int64]
}

func NewFavorites(repo *Repository[[]int64]) (*Favorites, error) {
	ids, _, err := repo.Load()
	if err != nil {
		return nil, err
	}
	return &Favorites{ids: ids, repo: repo}, nil
}

func (f *Favorites) commit(next []int64) error {
	var err error
	if len(next) == 0 {
		err = f.repo.Clear()
	} else {
		err = f.repo.Save(next)
	}
	if err != nil {
		return err
	}
	f.ids = next
	return nil
}

func (f *Favorites) index(id int64) int {
	for i, v := range f.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Toggle saves id if absent and drops it otherwise, reporting whether it is now saved.
func (f *Favorites) Toggle(id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := append([]int64(nil), f.ids...)
	if i := f.index(id); i >= 0 {
		next = append(next[:i], next[i+1:]...)
		if err := f.commit(next); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := f.commit(append(next, id)); err != nil {
		return false, err
	}
	return true, nil
}

func (f *Favorites) Contains(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index(id) >= 0
}

func (f *Favorites) IDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.ids...)
}
