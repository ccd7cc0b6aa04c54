package catalog

// AssetPrefix is the route images are served under in rendered pages, so
// category directories cannot collide with the server's own routes.
const AssetPrefix = "/assets"

// AssetURL maps an image web path to its URL under AssetPrefix.
func AssetURL(webPath string) string {
	if webPath == "" {
		return ""
	}
	return AssetPrefix + webPath
}

// Project is one gallery card: a named set of images under a category.
// Cover and Count are derived from Images and are kept consistent by the
// constructors in this package.
type Project struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Cover    string   `json:"cover"`
	Images   []string `json:"images"`
	Count    int      `json:"count"`
}

// NewProject builds a project record from its image list. It returns false
// when images is empty, since such projects never appear in a catalog.
func NewProject(slug, title, category string, images []string) (Project, bool) {
	if len(images) == 0 {
		return Project{}, false
	}
	imgs := append([]string(nil), images...)
	return Project{
		Slug:     slug,
		Title:    title,
		Category: category,
		Cover:    imgs[0],
		Images:   imgs,
		Count:    len(imgs),
	}, true
}

// Clone returns a copy that shares no mutable state with p.
func (p Project) Clone() Project {
	p.Images = append([]string(nil), p.Images...)
	return p
}

// Valid reports whether the derived fields agree with Images.
func (p Project) Valid() bool {
	return len(p.Images) > 0 && p.Count == len(p.Images) && p.Cover == p.Images[0]
}

// Catalog is an immutable, ordered set of projects.
type Catalog struct {
	projects []Project
}

// NewCatalog copies projects into a catalog. Order is preserved as given.
func NewCatalog(projects []Project) *Catalog {
	c := &Catalog{projects: make([]Project, len(projects))}
	for i, p := range projects {
		c.projects[i] = p.Clone()
	}
	return c
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.projects)
}

// Projects returns independent copies of every project in catalog order.
func (c *Catalog) Projects() []Project {
	out := make([]Project, 0, c.Len())
	if c == nil {
		return out
	}
	for _, p := range c.projects {
		out = append(out, p.Clone())
	}
	return out
}

// Categories returns the distinct category names in catalog order.
func (c *Catalog) Categories() []string {
	out := []string{}
	if c == nil {
		return out
	}
	seen := make(map[string]struct{})
	for _, p := range c.projects {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// each visits projects without copying; fn must not retain or mutate them.
func (c *Catalog) each(fn func(p *Project) bool) {
	if c == nil {
		return
	}
	for i := range c.projects {
		if !fn(&c.projects[i]) {
			return
		}
	}
}
