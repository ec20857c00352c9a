package resource

import "log"

// A Pool is a dispatch set of resources. Members report their transitions
// into and out of the Idle state, so finding an idle unit never scans the
// whole membership.
type Pool struct {
	name    string
	members []*Resource
	idle    []*Resource
}

// NewPool creates an empty resource pool.
func NewPool(name string) *Pool {
	return &Pool{name: name}
}

// Name returns the name of the pool.
func (p *Pool) Name() string {
	return p.name
}

// AddMember adds a resource to the pool. A resource may belong to several
// pools; adding the same resource twice is a precondition violation.
func (p *Pool) AddMember(r *Resource) {
	if r == nil {
		log.Panicf("pool %s: adding a nil resource", p.name)
	}

	for _, m := range p.members {
		if m == r {
			log.Panicf("pool %s: resource %s is already a member",
				p.name, r.name)
		}
	}

	p.members = append(p.members, r)
	r.pools = append(r.pools, p)

	if r.IsIdle() {
		p.idle = append(p.idle, r)
	}
}

// NumMembers returns the size of the membership.
func (p *Pool) NumMembers() int {
	return len(p.members)
}

// NumIdle returns the number of members currently idle.
func (p *Pool) NumIdle() int {
	return len(p.idle)
}

// FindIdle returns an idle member, or nil if every member is busy, failed,
// or inactive. The member is not claimed; the caller seizes it.
func (p *Pool) FindIdle() *Resource {
	if len(p.idle) == 0 {
		return nil
	}

	return p.idle[0]
}

// Initialize rebuilds the idle list from member states, for replication
// resets after members have re-initialized.
func (p *Pool) Initialize() {
	p.idle = p.idle[:0]

	for _, m := range p.members {
		if m.IsIdle() {
			p.idle = append(p.idle, m)
		}
	}
}

func (p *Pool) noteIdle(r *Resource) {
	p.idle = append(p.idle, r)
}

func (p *Pool) retractIdle(r *Resource) {
	for i, m := range p.idle {
		if m == r {
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			return
		}
	}
}

// A TransporterPool is a dispatch set of transporters, maintained the same
// way as a resource Pool.
type TransporterPool struct {
	name    string
	members []*Transporter
	idle    []*Transporter
}

// NewTransporterPool creates an empty transporter pool.
func NewTransporterPool(name string) *TransporterPool {
	return &TransporterPool{name: name}
}

// Name returns the name of the pool.
func (p *TransporterPool) Name() string {
	return p.name
}

// AddMember adds a transporter to the pool.
func (p *TransporterPool) AddMember(t *Transporter) {
	if t == nil {
		log.Panicf("pool %s: adding a nil transporter", p.name)
	}

	for _, m := range p.members {
		if m == t {
			log.Panicf("pool %s: transporter %s is already a member",
				p.name, t.name)
		}
	}

	p.members = append(p.members, t)
	t.pools = append(t.pools, p)

	if t.IsIdle() {
		p.idle = append(p.idle, t)
	}
}

// NumMembers returns the size of the membership.
func (p *TransporterPool) NumMembers() int {
	return len(p.members)
}

// NumIdle returns the number of members currently idle.
func (p *TransporterPool) NumIdle() int {
	return len(p.idle)
}

// FindIdle returns an idle member, or nil.
func (p *TransporterPool) FindIdle() *Transporter {
	if len(p.idle) == 0 {
		return nil
	}

	return p.idle[0]
}

// Initialize rebuilds the idle list from member states.
func (p *TransporterPool) Initialize() {
	p.idle = p.idle[:0]

	for _, m := range p.members {
		if m.IsIdle() {
			p.idle = append(p.idle, m)
		}
	}
}

func (p *TransporterPool) noteIdle(t *Transporter) {
	p.idle = append(p.idle, t)
}

func (p *TransporterPool) retractIdle(t *Transporter) {
	for i, m := range p.idle {
		if m == t {
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			return
		}
	}
}
