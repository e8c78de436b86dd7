package process

import (
	ps "github.com/shirou/gopsutil/v4/process"
)

// descendants walks the process table breadth first and returns every
// process transitively started by pid. It has to run before the root is
// killed, orphans are re-parented and can not be found afterwards.
func descendants(pid int) []*ps.Process {
	root, err := ps.NewProcess(int32(pid))
	if err != nil {
		return nil
	}

	var found []*ps.Process
	queue := []*ps.Process{root}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		children, err := p.Children()
		if err != nil {
			continue
		}
		found = append(found, children...)
		queue = append(queue, children...)
	}

	return found
}

// killProcessTree kills pid, its process group and every descendant.
func killProcessTree(pid int) error {
	tree := descendants(pid)

	err := killProcessGroup(pid)
	for _, p := range tree {
		// Most of them already went down with the group.
		_ = p.Kill()
	}

	return err
}
