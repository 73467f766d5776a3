package ability

import "errors"

var (
	ErrUnknownHandle   = errors.New("ability: unknown spec handle")
	ErrNilDefinition   = errors.New("ability: spec has no definition")
	ErrAlreadyActive   = errors.New("ability: per-actor instance already active")
	ErrInvalidGroup    = errors.New("ability: invalid activation group")
	ErrGroupBlocked    = errors.New("ability: activation group blocked")
	ErrOnCooldown      = errors.New("ability: on cooldown")
	ErrTagBlocked      = errors.New("ability: blocked by owner tags")
	ErrTagRequired     = errors.New("ability: missing required owner tags")
	ErrCannotActivate  = errors.New("ability: activation check refused")
	ErrUnknownEffect   = errors.New("ability: dynamic tag effect not registered")
	ErrEffectNotActive = errors.New("ability: no dynamic tag effect for tag")
)
