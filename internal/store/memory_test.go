package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/i474232898/weather-reports/internal/weather"
)

func newLocation(name string) weather.Location {
	return weather.Location{
		ID:        uuid.New(),
		Name:      name,
		Latitude:  48.8566,
		Longitude: 2.3522,
		Elevation: 35,
		Timezone:  "Europe/Paris",
	}
}

func TestCollectionAddAndGet(t *testing.T) {
	c := NewCollection[weather.Location]("locations")
	loc := newLocation("Paris Centre")

	added, err := c.Add(loc)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added != loc {
		t.Fatalf("Add returned %+v, want %+v", added, loc)
	}

	got, ok := c.GetByID(loc.ID)
	if !ok {
		t.Fatal("expected entity to be found")
	}
	if got != loc {
		t.Fatalf("GetByID returned %+v, want %+v", got, loc)
	}

	if _, ok := c.GetByID(uuid.New()); ok {
		t.Fatal("expected unknown id to be absent")
	}
}

func TestCollectionReturnsCopies(t *testing.T) {
	c := NewCollection[weather.Location]("locations")
	loc := newLocation("Paris Centre")

	rename := func(l *weather.Location, name string) { l.Name = name }

	added, _ := c.Add(loc)
	rename(&added, "changed through Add result")
	rename(&loc, "changed through input")

	got, _ := c.GetByID(loc.ID)
	rename(&got, "changed through GetByID result")

	all := c.GetAll()
	rename(&all[0], "changed through GetAll result")

	again, _ := c.GetByID(loc.ID)
	if again.Name != "Paris Centre" {
		t.Fatalf("stored entity was mutated: name %q", again.Name)
	}
}

func TestCollectionDuplicateID(t *testing.T) {
	c := NewCollection[weather.Location]("locations")
	loc := newLocation("Paris Centre")
	if _, err := c.Add(loc); err != nil {
		t.Fatalf("Add: %v", err)
	}

	dup := loc
	dup.Name = "Other"
	_, err := c.Add(dup)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	got, _ := c.GetByID(loc.ID)
	if got.Name != "Paris Centre" {
		t.Fatalf("duplicate add changed stored entity: %q", got.Name)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", c.Len())
	}
}

func TestCollectionNilID(t *testing.T) {
	c := NewCollection[weather.Location]("locations")

	if _, err := c.Add(weather.Location{Name: "no id"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("Add: expected ErrInvalidID, got %v", err)
	}
	if _, err := c.Update(weather.Location{Name: "no id"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("Update: expected ErrInvalidID, got %v", err)
	}
}

func TestCollectionUpdate(t *testing.T) {
	c := NewCollection[weather.Location]("locations")
	loc := newLocation("Paris Centre")

	if _, err := c.Update(loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown entity, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("update of unknown entity must not insert it")
	}

	c.Add(loc)
	loc.Latitude = 10
	updated, err := c.Update(loc)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Latitude != 10 {
		t.Fatalf("expected latitude 10, got %f", updated.Latitude)
	}
	got, _ := c.GetByID(loc.ID)
	if got.Latitude != 10 {
		t.Fatalf("stored latitude = %f, want 10", got.Latitude)
	}
}

func TestCollectionDeleteAndClear(t *testing.T) {
	c := NewCollection[weather.Location]("locations")
	a, b, d := newLocation("A"), newLocation("B"), newLocation("C")
	c.Add(a)
	c.Add(b)
	c.Add(d)

	if !c.Delete(b.ID) {
		t.Fatal("expected delete to report removal")
	}
	if c.Delete(b.ID) {
		t.Fatal("second delete must report false")
	}

	all := c.GetAll()
	if len(all) != 2 || all[0].Name != "A" || all[1].Name != "C" {
		t.Fatalf("unexpected remaining entities: %+v", all)
	}

	c.Clear()
	if c.Len() != 0 || len(c.GetAll()) != 0 {
		t.Fatal("expected empty collection after Clear")
	}
}

func TestCollectionConcurrentAccess(t *testing.T) {
	c := NewCollection[weather.Location]("locations")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			loc := newLocation("concurrent")
			if _, err := c.Add(loc); err != nil {
				t.Errorf("Add: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			_ = c.GetAll()
		}()
	}
	wg.Wait()

	if c.Len() != 50 {
		t.Fatalf("expected 50 entities, got %d", c.Len())
	}
}
