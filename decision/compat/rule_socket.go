package compat

import (
	"fmt"

	"pcbuild/decision/parts"
	"pcbuild/decision/specs"
)

// SocketRule checks that the CPU and motherboard share a socket.
type SocketRule struct{}

func (SocketRule) ID() string { return "cpu-socket" }

func (SocketRule) Requires() []parts.Category {
	return cats(parts.CategoryCPU, parts.CategoryMotherboard)
}

func (SocketRule) SpecKeys() []string { return []string{specs.KeySocket} }

func (r SocketRule) Check(sel parts.Selection) Outcome {
	cpu, _ := sel.Get(parts.CategoryCPU)
	board, _ := sel.Get(parts.CategoryMotherboard)

	cpuSocket, ok1 := cpu.Text(specs.KeySocket)
	boardSocket, ok2 := board.Text(specs.KeySocket)
	if !ok1 || !ok2 {
		return skipped()
	}

	if canonical(cpuSocket) == canonical(boardSocket) {
		return confirmed(Confirmation{
			Type:    "socket",
			Message: fmt.Sprintf("%s and %s both use socket %s", cpu.DisplayName(), board.DisplayName(), cpuSocket),
			Explanation: fmt.Sprintf("The CPU socket (%s) matches the motherboard socket (%s), so the processor seats and locks into the board.",
				cpuSocket, boardSocket),
		})
	}

	return issued(Issue{
		Type:     "socket_mismatch",
		Severity: SeverityError,
		Message: fmt.Sprintf("%s (socket %s) does not fit %s (socket %s)",
			cpu.DisplayName(), cpuSocket, board.DisplayName(), boardSocket),
		Explanation: fmt.Sprintf("CPU: %s declares socket %s. Motherboard: %s declares socket %s. "+
			"A processor only seats in a board with the identical socket; pin layout, keying and the retention mechanism differ between sockets, so this CPU cannot be installed in this board.",
			cpu.DisplayName(), cpuSocket, board.DisplayName(), boardSocket),
		Fix: fmt.Sprintf("Option 1: change the motherboard to one with socket %s. Option 2: change the CPU to one built for socket %s.",
			cpuSocket, boardSocket),
		AffectedCategories:  cats(parts.CategoryCPU, parts.CategoryMotherboard),
		SpecKeys:            []string{specs.KeySocket},
		SeverityExplanation: "Blocking: the CPU physically cannot be mounted, so the system will not assemble or power on.",
		Recommendation:      "Choose the CPU first, then filter motherboards by its socket.",
	})
}
