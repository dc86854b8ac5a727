// Package repotest provides in-memory implementations of the repository
// interfaces. They enforce the same unique and cascade rules as the
// postgres schema so use cases and handlers can be tested without a database.
package repotest

import (
	"context"
	"sort"
	"sync"

	"starwars-api/entities"
	"starwars-api/repositories"
)

// Store holds every table. Deleting a user, character or planet removes
// the favourites that reference it. Updating a missing row fails with
// repositories.ErrNotFound.
type Store struct {
	mu         sync.Mutex
	users      map[uint]entities.User
	characters map[uint]entities.Character
	planets    map[uint]entities.Planet
	favourites map[uint]entities.Favourite
	nextID     map[string]uint

	// Err, when set, is returned by every call.
	Err error
}

func NewStore() *Store {
	return &Store{
		users:      make(map[uint]entities.User),
		characters: make(map[uint]entities.Character),
		planets:    make(map[uint]entities.Planet),
		favourites: make(map[uint]entities.Favourite),
		nextID:     make(map[string]uint),
	}
}

func (s *Store) Users() repositories.UserRepository           { return userRepo{s} }
func (s *Store) Characters() repositories.CharacterRepository { return characterRepo{s} }
func (s *Store) Planets() repositories.PlanetRepository       { return planetRepo{s} }
func (s *Store) Favourites() repositories.FavouriteRepository { return favouriteRepo{s} }

func (s *Store) next(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// cascade drops favourites matching pred. Callers hold s.mu.
func (s *Store) cascade(pred func(entities.Favourite) bool) {
	for id, f := range s.favourites {
		if pred(f) {
			delete(s.favourites, id)
		}
	}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	user.ID = r.s.next("users")
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uint) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r userRepo) FirstActive(_ context.Context) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; u.IsActive {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r userRepo) GetAll(_ context.Context) ([]entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var users []entities.User
	for _, id := range sortedKeys(r.s.users) {
		users = append(users, r.s.users[id])
	}
	return users, nil
}

func (r userRepo) Update(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.users, id)
	r.s.cascade(func(f entities.Favourite) bool { return f.UserID == id })
	return nil
}

type characterRepo struct{ s *Store }

func (r characterRepo) Create(_ context.Context, c *entities.Character) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, existing := range r.s.characters {
		if existing.Name == c.Name {
			return repositories.ErrDuplicate
		}
	}
	c.ID = r.s.next("characters")
	r.s.characters[c.ID] = *c
	return nil
}

func (r characterRepo) GetByID(_ context.Context, id uint) (*entities.Character, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	c, ok := r.s.characters[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r characterRepo) GetByName(_ context.Context, name string) (*entities.Character, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, c := range r.s.characters {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r characterRepo) GetAll(_ context.Context) ([]entities.Character, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var out []entities.Character
	for _, id := range sortedKeys(r.s.characters) {
		out = append(out, r.s.characters[id])
	}
	return out, nil
}

func (r characterRepo) Update(_ context.Context, c *entities.Character) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.characters[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range r.s.characters {
		if id != c.ID && existing.Name == c.Name {
			return repositories.ErrDuplicate
		}
	}
	r.s.characters[c.ID] = *c
	return nil
}

func (r characterRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.characters[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.characters, id)
	r.s.cascade(func(f entities.Favourite) bool { return f.CharacterID != nil && *f.CharacterID == id })
	return nil
}

type planetRepo struct{ s *Store }

func (r planetRepo) Create(_ context.Context, p *entities.Planet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, existing := range r.s.planets {
		if existing.Name == p.Name {
			return repositories.ErrDuplicate
		}
	}
	p.ID = r.s.next("planets")
	r.s.planets[p.ID] = *p
	return nil
}

func (r planetRepo) GetByID(_ context.Context, id uint) (*entities.Planet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.planets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r planetRepo) GetByName(_ context.Context, name string) (*entities.Planet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, p := range r.s.planets {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r planetRepo) GetAll(_ context.Context) ([]entities.Planet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var out []entities.Planet
	for _, id := range sortedKeys(r.s.planets) {
		out = append(out, r.s.planets[id])
	}
	return out, nil
}

func (r planetRepo) Update(_ context.Context, p *entities.Planet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.planets[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range r.s.planets {
		if id != p.ID && existing.Name == p.Name {
			return repositories.ErrDuplicate
		}
	}
	r.s.planets[p.ID] = *p
	return nil
}

func (r planetRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.planets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.planets, id)
	r.s.cascade(func(f entities.Favourite) bool { return f.PlanetID != nil && *f.PlanetID == id })
	return nil
}

type favouriteRepo struct{ s *Store }

func (r favouriteRepo) Create(_ context.Context, fav *entities.Favourite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, f := range r.s.favourites {
		if f.UserID == fav.UserID && f.Kind() == fav.Kind() && f.TargetID() == fav.TargetID() {
			return repositories.ErrDuplicate
		}
	}
	fav.ID = r.s.next("favourites")
	r.s.favourites[fav.ID] = *fav
	return nil
}

func (r favouriteRepo) GetByUserID(_ context.Context, userID uint) ([]entities.Favourite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	var out []entities.Favourite
	for _, id := range sortedKeys(r.s.favourites) {
		if f := r.s.favourites[id]; f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r favouriteRepo) Find(_ context.Context, userID uint, kind entities.FavouriteKind, targetID uint) (*entities.Favourite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, f := range r.s.favourites {
		if f.UserID == userID && f.Kind() == kind && f.TargetID() == targetID {
			return &f, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r favouriteRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.favourites[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.favourites, id)
	return nil
}
