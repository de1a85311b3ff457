package aggregate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Spok95/kindergarten/internal/models"
)

func ptr[T any](v T) *T { return &v }

func rec(id, child, author, parent int64, d time.Time) models.Recommendation {
	return models.Recommendation{ID: id, ChildID: child, AuthorID: author, ParentID: parent, Body: "текст", CreatedAt: d}
}

func TestFilterRecommendations(t *testing.T) {
	d := day(2024, time.May, 1)
	var all []models.Recommendation
	for i := int64(1); i <= 40; i++ {
		all = append(all, rec(i, i%5+1, 100+i%3, 5+i%4, d))
	}

	t.Run("parent_sees_only_own", func(t *testing.T) {
		got := FilterRecommendations(all, models.Parent, 7)
		if len(got) == 0 {
			t.Fatal("ожидали рекомендации для родителя 7")
		}
		for _, r := range got {
			if r.ParentID != 7 {
				t.Fatalf("чужая рекомендация %d с parent_id=%d", r.ID, r.ParentID)
			}
		}
	})

	t.Run("teacher_sees_authored", func(t *testing.T) {
		for _, role := range []models.Role{models.Teacher, models.Psychologist} {
			for _, r := range FilterRecommendations(all, role, 101) {
				if r.AuthorID != 101 {
					t.Fatalf("%s: чужая рекомендация %d", role, r.ID)
				}
			}
		}
	})

	t.Run("admin_sees_all", func(t *testing.T) {
		if got := FilterRecommendations(all, models.Admin, 1); len(got) != len(all) {
			t.Fatalf("ожидали %d, получили %d", len(all), len(got))
		}
	})

	t.Run("unknown_role_sees_nothing", func(t *testing.T) {
		if got := FilterRecommendations(all, models.Role("guest"), 7); len(got) != 0 {
			t.Fatalf("ожидали пусто, получили %d", len(got))
		}
	})
}

func TestBuildRecommendationTree(t *testing.T) {
	d1 := day(2024, time.May, 1)
	d2 := day(2024, time.May, 3)

	groups := []models.Group{{ID: 10, Name: "Солнышко"}, {ID: 20, Name: "Ромашка"}}
	children := []models.Child{
		{ID: 1, FullName: "Маша", GroupID: ptr(int64(10))},
		{ID: 2, FullName: "Петя", GroupID: ptr(int64(20))},
		{ID: 3, FullName: "Коля"},                          // без группы
		{ID: 4, FullName: "Оля", GroupID: ptr(int64(99))}, // группа удалена
	}
	recs := []models.Recommendation{
		rec(1, 1, 100, 7, d1),
		rec(2, 1, 100, 7, d2),
		rec(3, 3, 100, 8, d1),
		rec(4, 404, 100, 9, d1), // ребёнка нет
		rec(5, 4, 100, 9, d2),
	}

	tree := BuildRecommendationTree(recs, groups, children)

	want := RecommendationTree{
		Groups: []GroupRecommendations{
			{GroupID: 10, GroupName: "Солнышко", Children: []ChildRecommendations{
				{ChildID: 1, ChildName: "Маша", Recommendations: []models.Recommendation{recs[1], recs[0]}},
			}},
			{GroupID: 20, GroupName: "Ромашка", Children: []ChildRecommendations{
				{ChildID: 2, ChildName: "Петя", Recommendations: []models.Recommendation{}},
			}},
		},
		Unassigned: GroupRecommendations{GroupName: UnassignedGroupName, Children: []ChildRecommendations{
			{ChildID: 3, ChildName: "Коля", Recommendations: []models.Recommendation{recs[2]}},
			{ChildID: 4, ChildName: "Оля", Recommendations: []models.Recommendation{recs[4]}},
		}},
		Unresolved: []models.Recommendation{recs[3]},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("дерево не совпало (-want +got):\n%s", diff)
	}
}

func TestBuildRecommendationTree_MissingChildNeverInBuckets(t *testing.T) {
	groups := []models.Group{{ID: 1, Name: "Г"}}
	children := []models.Child{{ID: 1, FullName: "Р", GroupID: ptr(int64(1))}}
	recs := []models.Recommendation{rec(1, 999, 1, 1, day(2024, time.May, 1))}

	tree := BuildRecommendationTree(recs, groups, children)
	for _, g := range append(tree.Groups, tree.Unassigned) {
		for _, c := range g.Children {
			if len(c.Recommendations) != 0 {
				t.Fatalf("рекомендация попала в корзину ребёнка %d", c.ChildID)
			}
		}
	}
	if len(tree.Unresolved) != 1 || tree.Unresolved[0].ChildID != 999 {
		t.Fatalf("ожидали одну неразрешённую рекомендацию, получили %+v", tree.Unresolved)
	}
}

func TestBuildRecommendationTree_Empty(t *testing.T) {
	tree := BuildRecommendationTree(nil, nil, nil)
	if tree.Groups == nil || tree.Unassigned.Children == nil || tree.Unresolved == nil {
		t.Fatal("пустые коллекции должны сериализоваться как [], а не null")
	}
}
