package repository

import (
	"errors"
	"sync"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

// DefaultDirectoryBuckets is the bucket count used when none is configured.
const DefaultDirectoryBuckets = 101

var (
	// ErrDuplicateUsername is returned when creating a user whose name is taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
)

type userEntry struct {
	user models.User
	next *userEntry
}

// UserDirectory is a chained hash table of users keyed by username.
// Ids are assigned sequentially from 1 and never reused.
type UserDirectory struct {
	mu      sync.RWMutex
	buckets []*userEntry
	nextID  int
	size    int
}

// NewUserDirectory builds an empty directory with the given bucket count.
func NewUserDirectory(buckets int) *UserDirectory {
	if buckets <= 0 {
		buckets = DefaultDirectoryBuckets
	}
	return &UserDirectory{buckets: make([]*userEntry, buckets), nextID: 1}
}

// hashUsername is djb2 over the username bytes.
func hashUsername(name string) uint64 {
	var h uint64 = 5381
	for i := 0; i < len(name); i++ {
		h = h*33 + uint64(name[i])
	}
	return h
}

func (d *UserDirectory) bucketFor(name string) int {
	return int(hashUsername(name) % uint64(len(d.buckets)))
}

func (d *UserDirectory) lookup(name string) *userEntry {
	for e := d.buckets[d.bucketFor(name)]; e != nil; e = e.next {
		if e.user.Username == name {
			return e
		}
	}
	return nil
}

func (d *UserDirectory) idTaken(id int) bool {
	for _, head := range d.buckets {
		for e := head; e != nil; e = e.next {
			if e.user.ID == id {
				return true
			}
		}
	}
	return false
}

func (d *UserDirectory) insert(user models.User) {
	idx := d.bucketFor(user.Username)
	d.buckets[idx] = &userEntry{user: user, next: d.buckets[idx]}
	d.size++
}

// Create adds a new user with the next available id.
func (d *UserDirectory) Create(username, password string, role models.UserRole) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lookup(username) != nil {
		return models.User{}, ErrDuplicateUsername
	}
	user := models.User{ID: d.nextID, Username: username, Password: password, Role: role}
	d.nextID++
	d.insert(user)
	return user, nil
}

// FindByName returns the user with the exact username.
func (d *UserDirectory) FindByName(username string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if e := d.lookup(username); e != nil {
		return e.user, nil
	}
	return models.User{}, ErrUserNotFound
}

// FindByID scans every bucket for the id.
func (d *UserDirectory) FindByID(id int) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, head := range d.buckets {
		for e := head; e != nil; e = e.next {
			if e.user.ID == id {
				return e.user, nil
			}
		}
	}
	return models.User{}, ErrUserNotFound
}

// All returns every user in bucket order, then chain order.
func (d *UserDirectory) All() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]models.User, 0, d.size)
	for _, head := range d.buckets {
		for e := head; e != nil; e = e.next {
			users = append(users, e.user)
		}
	}
	return users
}

// Records returns the persisted tuples in the same order as All.
func (d *UserDirectory) Records() []models.UserRecord {
	users := d.All()
	records := make([]models.UserRecord, len(users))
	for i, u := range users {
		records[i] = u.Record()
	}
	return records
}

// Load inserts records with their ids preserved and returns how many were kept.
// Records with a taken username or id, a non-positive id, or an unknown role code
// are skipped. The id counter ends past every loaded id.
func (d *UserDirectory) Load(records []models.UserRecord) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	loaded := 0
	for _, rec := range records {
		if rec.ID <= 0 || !models.UserRole(rec.RoleCode).Valid() {
			continue
		}
		if d.lookup(rec.Username) != nil || d.idTaken(rec.ID) {
			continue
		}
		d.insert(rec.User())
		if rec.ID >= d.nextID {
			d.nextID = rec.ID + 1
		}
		loaded++
	}
	return loaded
}

// Len returns the number of users.
func (d *UserDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.size
}

// NextID returns the id the next Create will assign.
func (d *UserDirectory) NextID() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nextID
}
