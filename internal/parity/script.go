package parity

import (
	"github.com/samdwyer/nhparity/internal/entity"
	"github.com/samdwyer/nhparity/internal/rng"
)

// ScriptCommands returns n commands chosen from their own stream seeded
// by seed, so a run can be reproduced from the seed alone. Mostly moves,
// with waits, searches, rests and the odd descent mixed in.
func ScriptCommands(seed uint64, n int) []entity.Command {
	s := rng.NewStream("script", seed)
	cmds := make([]entity.Command, n)
	for i := range cmds {
		switch r := s.Rn2(20); {
		case r < 12:
			cmds[i] = entity.MoveDir(entity.Direction(s.Rn2(8)))
		case r < 16:
			cmds[i] = entity.Wait()
		case r < 18:
			cmds[i] = entity.Search()
		case r < 19:
			cmds[i] = entity.Rest(s.Rn1(5, 2))
		default:
			cmds[i] = entity.Command{Kind: entity.CmdDescend}
		}
	}
	return cmds
}
