package ui

import "github.com/ftahirops/ptop/model"

// tagWithChildren tags root and every row in rows whose parent chain leads
// to it. It walks an explicit worklist; rows that are already tagged are
// neither retagged nor descended into.
func tagWithChildren(rows []*model.Process, root *model.Process) {
	children := make(map[int][]*model.Process, len(rows))
	for _, p := range rows {
		if parent := p.Parent(); parent != p.PID {
			children[parent] = append(children[parent], p)
		}
	}
	root.Tagged = true
	work := []*model.Process{root}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		for _, c := range children[p.PID] {
			if c.Tagged {
				continue
			}
			c.Tagged = true
			work = append(work, c)
		}
	}
}

// expandCollapse flips the selected row's children flag.
func expandCollapse(m *MainPanel) bool {
	p := m.SelectedProcess()
	if p == nil {
		return false
	}
	p.ShowChildren = !p.ShowChildren
	return true
}

// collapseIntoParent selects the parent of the selected row and collapses
// it. It reports false when the parent is not on screen.
func collapseIntoParent(m *MainPanel) bool {
	p := m.SelectedProcess()
	if p == nil {
		return false
	}
	ppid := p.Parent()
	for i, q := range m.Processes() {
		if q.PID == ppid {
			q.ShowChildren = false
			m.SetSelected(i)
			return true
		}
	}
	return false
}
