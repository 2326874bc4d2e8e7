package apitest

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// collection is an in-memory table of JSON objects keyed by ID
type collection struct {
	name   string
	nextID int
	items  map[int]map[string]any
}

// Seed inserts an item into a collection and returns its ID
func (s *Server) Seed(name string, fields map[string]any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectionLocked(name).insert(fields)["id"].(int)
}

func (s *Server) collectionLocked(name string) *collection {
	col, ok := s.collections[name]
	if !ok {
		col = &collection{name: name, nextID: 1, items: make(map[int]map[string]any)}
		s.collections[name] = col
	}
	return col
}

func (col *collection) insert(fields map[string]any) map[string]any {
	item := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		item[k] = v
	}
	item["id"] = col.nextID
	item["created_at"] = time.Now().UTC().Format("2006-01-02T15:04:05.000000")
	col.items[col.nextID] = item
	col.nextID++
	return item
}

func copyItem(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (s *Server) registerCollection(group *gin.RouterGroup, name string) {
	path := "/" + name
	group.GET(path, s.listItems(name))
	group.POST(path, s.createItem(name))
	group.GET(path+"/:id", s.getItem(name))
	group.PUT(path+"/:id", s.updateItem(name))
	group.DELETE(path+"/:id", s.deleteItem(name))
}

func notFoundDetail(name string) string {
	singular := strings.TrimSuffix(name, "s")
	if singular == "" {
		singular = name
	}
	return fmt.Sprintf("%s%s not found", strings.ToUpper(singular[:1]), singular[1:])
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondWithDetail(c, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func matchesSearch(item map[string]any, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, v := range item {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func (s *Server) listItems(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			respondWithDetail(c, http.StatusUnprocessableEntity, "page must be >= 1")
			return
		}
		perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
		if err != nil || perPage < 1 || perPage > maxPerPage {
			respondWithDetail(c, http.StatusUnprocessableEntity, "per_page must be between 1 and 100")
			return
		}
		search := c.Query("search")

		s.mu.Lock()
		col := s.collectionLocked(name)
		ids := make([]int, 0, len(col.items))
		for id, item := range col.items {
			if matchesSearch(item, search) {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)

		items := make([]map[string]any, 0, perPage)
		start := (page - 1) * perPage
		for i := start; i < len(ids) && i < start+perPage; i++ {
			items = append(items, copyItem(col.items[ids[i]]))
		}
		s.mu.Unlock()

		total := len(ids)
		pages := 1
		if total > 0 {
			pages = int(math.Ceil(float64(total) / float64(perPage)))
		}

		c.JSON(http.StatusOK, gin.H{
			"items":    items,
			"total":    total,
			"page":     page,
			"per_page": perPage,
			"pages":    pages,
		})
	}
}

func (s *Server) getItem(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		s.mu.Lock()
		item, found := s.collectionLocked(name).items[id]
		if found {
			item = copyItem(item)
		}
		s.mu.Unlock()

		if !found {
			respondWithDetail(c, http.StatusNotFound, notFoundDetail(name))
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (s *Server) createItem(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			respondWithDetail(c, http.StatusUnprocessableEntity, err.Error())
			return
		}

		s.mu.Lock()
		item := copyItem(s.collectionLocked(name).insert(fields))
		s.mu.Unlock()

		c.JSON(http.StatusCreated, item)
	}
}

func (s *Server) updateItem(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil {
			respondWithDetail(c, http.StatusUnprocessableEntity, err.Error())
			return
		}

		s.mu.Lock()
		item, found := s.collectionLocked(name).items[id]
		if found {
			for k, v := range fields {
				if k == "id" || k == "created_at" || v == nil {
					continue
				}
				item[k] = v
			}
			item = copyItem(item)
		}
		s.mu.Unlock()

		if !found {
			respondWithDetail(c, http.StatusNotFound, notFoundDetail(name))
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func (s *Server) deleteItem(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		s.mu.Lock()
		col := s.collectionLocked(name)
		_, found := col.items[id]
		delete(col.items, id)
		s.mu.Unlock()

		if !found {
			respondWithDetail(c, http.StatusNotFound, notFoundDetail(name))
			return
		}
		c.Status(http.StatusNoContent)
	}
}
