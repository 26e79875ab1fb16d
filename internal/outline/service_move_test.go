package outline

import (
	"context"
	"errors"
	"testing"

	"github.com/eykd/linemark/internal/domain"
)

func TestMove_ToExplicitRootPosition(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	x := mustAdd(t, svc, "Parent", Placement{})
	y := mustAdd(t, svc, "Child", Placement{ChildOf: x.ID})
	z := mustAdd(t, svc, "Grandchild", Placement{ChildOf: y.ID})

	if y.MP != "100-100" || z.MP != "100-100-100" {
		t.Fatalf("setup paths = %s, %s", y.MP, z.MP)
	}

	result, err := svc.Move(ctx, mustRef(t, y.ID), mustRef(t, "300"))
	if err != nil {
		t.Fatalf("Move error: %v", err)
	}
	if result.OldMP != "100-100" || result.NewMP != "300" {
		t.Errorf("result = %+v", result)
	}

	if got := pathOf(t, svc, y.ID); got != "300" {
		t.Errorf("y at %q, want 300", got)
	}
	if got := pathOf(t, svc, z.ID); got != "300-100" {
		t.Errorf("z at %q, want 300-100 (cascade)", got)
	}
	if got := pathOf(t, svc, x.ID); got != "100" {
		t.Errorf("x at %q, want 100 (untouched)", got)
	}
}

func TestMove_UnderParentAppends(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a := mustAdd(t, svc, "A", Placement{})
	b := mustAdd(t, svc, "B", Placement{})
	c := mustAdd(t, svc, "C", Placement{ChildOf: a.ID})

	if _, err := svc.Move(ctx, mustRef(t, b.ID), mustRef(t, "@"+a.ID)); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	// a already has c at 100-100; b appends at 100-200.
	if got := pathOf(t, svc, b.ID); got != "100-200" {
		t.Errorf("b at %q, want 100-200", got)
	}
	_ = c
}

func TestMove_PreservesIDAndDoctypes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a := mustAdd(t, svc, "A", Placement{})
	mustAdd(t, svc, "B", Placement{})
	if _, err := svc.AddType(ctx, mustRef(t, a.ID), "research"); err != nil {
		t.Fatalf("AddType error: %v", err)
	}

	if _, err := svc.Move(ctx, mustRef(t, a.ID), mustRef(t, "300")); err != nil {
		t.Fatalf("Move error: %v", err)
	}

	loaded, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	n, ok := loaded.Outline.Get(a.ID)
	if !ok {
		t.Fatal("node lost its id across the move")
	}
	if !n.HasDoctype("research") || !n.HasDoctype(domain.DoctypeDraft) || !n.HasDoctype(domain.DoctypeNotes) {
		t.Errorf("doctypes after move = %v", n.Doctypes)
	}
}

func TestMove_Rejections(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a := mustAdd(t, svc, "A", Placement{})
	b := mustAdd(t, svc, "B", Placement{})
	c := mustAdd(t, svc, "C", Placement{ChildOf: a.ID})

	tests := []struct {
		name    string
		node    string
		target  string
		wantErr error
	}{
		{"unknown node", "zz", "300", domain.ErrNodeNotFound},
		{"unknown target parent", a.ID, "zz", domain.ErrNodeNotFound},
		{"occupied target", a.ID, "200", domain.ErrOccupied},
		{"no-op", a.ID, "100", domain.ErrNoOp},
		{"cycle into own child", a.ID, "@" + c.ID, domain.ErrCycle},
		{"cycle into own subtree path", a.ID, "100-100-100", domain.ErrCycle},
	}
	_ = b

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Move(ctx, mustRef(t, tt.node), mustRef(t, tt.target))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
