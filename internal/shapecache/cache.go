// Package shapecache keeps derived geometry for board elements, keyed by
// element ID, with LRU eviction. The mutation engine calls Delete whenever an
// element's size, points, or file change; the next Get regenerates it.
package shapecache

import (
	"container/list"
	"math"
	"sync"

	"github.com/BakaI9/excalidraw/pkg/types"
)

// DefaultCapacity is the entry limit used when New is given a non-positive
// capacity.
const DefaultCapacity = 1024

// Shape is the cached geometry of one element.
type Shape struct {
	ElementID string
	// Version is the element version the shape was generated from.
	Version int64
	MinX    float64
	MinY    float64
	MaxX    float64
	MaxY    float64
}

// Width returns the bounding box width.
func (s Shape) Width() float64 { return s.MaxX - s.MinX }

// Height returns the bounding box height.
func (s Shape) Height() float64 { return s.MaxY - s.MinY }

// Stats reports cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Deletes   uint64
}

// Cache is an LRU shape cache. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
	stats    Stats
}

// New creates a cache holding at most capacity shapes.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the element's shape, generating and storing it on a miss.
func (c *Cache) Get(el *types.Element) Shape {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[el.ID]; ok {
		c.order.MoveToFront(node)
		c.stats.Hits++
		return node.Value.(Shape)
	}
	c.stats.Misses++

	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(Shape).ElementID)
		c.stats.Evictions++
	}

	s := Generate(el)
	c.entries[el.ID] = c.order.PushFront(s)
	return s
}

// Peek returns the cached shape for id without generating or touching LRU
// order.
func (c *Cache) Peek(id string) (Shape, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, ok := c.entries[id]
	if !ok {
		return Shape{}, false
	}
	return node.Value.(Shape), true
}

// Delete drops the element's cached shape.
func (c *Cache) Delete(el *types.Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if node, ok := c.entries[el.ID]; ok {
		c.order.Remove(node)
		delete(c.entries, el.ID)
		c.stats.Deletes++
	}
}

// Len returns the number of cached shapes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a copy of the activity counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Generate computes an element's axis-aligned bounding box in scene
// coordinates, accounting for rotation about the element centre.
func Generate(el *types.Element) Shape {
	var minX, minY, maxX, maxY float64
	if len(el.Points) > 0 {
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		for _, p := range el.Points {
			minX = math.Min(minX, el.X+p[0])
			maxX = math.Max(maxX, el.X+p[0])
			minY = math.Min(minY, el.Y+p[1])
			maxY = math.Max(maxY, el.Y+p[1])
		}
	} else {
		minX, minY = el.X, el.Y
		maxX, maxY = el.X+el.Width, el.Y+el.Height
	}

	if el.Angle != 0 {
		cx, cy := (minX+maxX)/2, (minY+maxY)/2
		sin, cos := math.Sincos(el.Angle)
		corners := [4][2]float64{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}}
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		for _, p := range corners {
			dx, dy := p[0]-cx, p[1]-cy
			x := cx + dx*cos - dy*sin
			y := cy + dx*sin + dy*cos
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}

	return Shape{
		ElementID: el.ID,
		Version:   el.Version,
		MinX:      minX,
		MinY:      minY,
		MaxX:      maxX,
		MaxY:      maxY,
	}
}
