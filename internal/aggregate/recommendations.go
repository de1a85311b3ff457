package aggregate

import (
	"sort"

	"github.com/Spok95/kindergarten/internal/models"
)

// UnassignedGroupName — подпись синтетической корзины для детей без группы.
const UnassignedGroupName = "Без группы"

type ChildRecommendations struct {
	ChildID         int64                   `json:"child_id"`
	ChildName       string                  `json:"child_name"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

type GroupRecommendations struct {
	GroupID   int64                  `json:"group_id"`
	GroupName string                 `json:"group_name"`
	Children  []ChildRecommendations `json:"children"`
}

// RecommendationTree — группа → ребёнок → рекомендации.
// Unresolved — рекомендации, чей ребёнок не найден: они не теряются молча.
type RecommendationTree struct {
	Groups     []GroupRecommendations  `json:"groups"`
	Unassigned GroupRecommendations    `json:"unassigned"`
	Unresolved []models.Recommendation `json:"unresolved"`
}

// FilterRecommendations оставляет то, что вправе видеть пользователь:
// админ — всё, педагог и психолог — свои, родитель — адресованные ему.
func FilterRecommendations(recs []models.Recommendation, role models.Role, userID int64) []models.Recommendation {
	out := make([]models.Recommendation, 0, len(recs))
	for _, r := range recs {
		switch role {
		case models.Admin:
			out = append(out, r)
		case models.Teacher, models.Psychologist:
			if r.AuthorID == userID {
				out = append(out, r)
			}
		case models.Parent:
			if r.ParentID == userID {
				out = append(out, r)
			}
		}
	}
	return out
}

// SortRecommendations — по дате, новые сверху; при равенстве по id.
func SortRecommendations(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
}

// BuildRecommendationTree раскладывает уже отфильтрованные рекомендации по группам и детям.
// Порядок групп и детей — как во входных списках.
func BuildRecommendationTree(recs []models.Recommendation, groups []models.Group, children []models.Child) RecommendationTree {
	type childSlot struct {
		group *GroupRecommendations
		index int
	}

	tree := RecommendationTree{
		Groups:     make([]GroupRecommendations, len(groups)),
		Unassigned: GroupRecommendations{GroupName: UnassignedGroupName, Children: []ChildRecommendations{}},
		Unresolved: []models.Recommendation{},
	}
	byGroup := make(map[int64]*GroupRecommendations, len(groups))
	for i, g := range groups {
		tree.Groups[i] = GroupRecommendations{GroupID: g.ID, GroupName: g.Name, Children: []ChildRecommendations{}}
		byGroup[g.ID] = &tree.Groups[i]
	}

	// Указатели на группы стабильны: tree.Groups больше не растёт.
	slots := make(map[int64]childSlot, len(children))
	for _, c := range children {
		bucket := &tree.Unassigned
		if c.GroupID != nil {
			if g, ok := byGroup[*c.GroupID]; ok {
				bucket = g
			}
		}
		bucket.Children = append(bucket.Children, ChildRecommendations{
			ChildID:         c.ID,
			ChildName:       c.FullName,
			Recommendations: []models.Recommendation{},
		})
		slots[c.ID] = childSlot{group: bucket, index: len(bucket.Children) - 1}
	}

	for _, r := range recs {
		s, ok := slots[r.ChildID]
		if !ok {
			tree.Unresolved = append(tree.Unresolved, r)
			continue
		}
		cr := &s.group.Children[s.index]
		cr.Recommendations = append(cr.Recommendations, r)
	}

	for gi := range tree.Groups {
		sortChildLists(tree.Groups[gi].Children)
	}
	sortChildLists(tree.Unassigned.Children)
	return tree
}

func sortChildLists(children []ChildRecommendations) {
	for i := range children {
		SortRecommendations(children[i].Recommendations)
	}
}
