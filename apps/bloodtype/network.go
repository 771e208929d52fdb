//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/markkurossi/beaver"
	"github.com/markkurossi/beaver/circuit"
	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/gmw"
	"github.com/markkurossi/beaver/p2p"
)

func parseRole(val string) (gmw.Role, error) {
	switch strings.ToLower(val) {
	case "alice":
		return gmw.Alice, nil
	case "bob":
		return gmw.Bob, nil
	default:
		return 0, fmt.Errorf("invalid role '%s'", val)
	}
}

type dealerCmd struct {
	commonFlags
}

func (*dealerCmd) Name() string { return "dealer" }
func (*dealerCmd) Synopsis() string {
	return "serves Beaver triples to one pair of parties"
}
func (*dealerCmd) Usage() string {
	return `Usage: bloodtype dealer [-config=<run.yaml>] [-dealer=<addr>]

Listens at the dealer address, waits for Alice and Bob to connect,
gives both their halves of fresh Beaver triples, and exits.

Flags:
`
}

func (c *dealerCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
}

func (c *dealerCmd) Execute(ctx context.Context, f *flag.FlagSet,
	_ ...interface{}) subcommands.ExitStatus {

	ctx, config, err := c.setup(ctx, "dealer")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	if err := serveTriples(ctx, config, c.config.Dealer); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func serveTriples(ctx context.Context, config *env.Config, addr string) error {
	log := logr.FromContextOrDiscard(ctx)
	circ := circuit.Compatibility()

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer l.Close()
	log.Info("dealer listening", "addr", addr)

	var conns [2]*p2p.Conn
	defer func() {
		for _, conn := range conns {
			if conn != nil {
				conn.Close()
			}
		}
	}()

	for count := 0; count < 2; {
		nc, err := l.Accept()
		if err != nil {
			return err
		}
		conn := p2p.NewConn(nc)
		id, err := conn.ReceiveUint32()
		if err != nil {
			conn.Close()
			return err
		}
		role := gmw.Role(id)
		if id > int(gmw.Bob) || conns[role] != nil {
			log.Info("rejecting party", "role", id, "remote", nc.RemoteAddr())
			conn.Close()
			continue
		}
		conns[role] = conn
		count++
		log.V(1).Info("party connected", "role", role.String(),
			"remote", nc.RemoteAddr().String())
	}

	// Both parties get the same session id with their triples and
	// check it with each other before running the protocol.
	session := uuid.NewString()

	dealer := gmw.NewDealer(config)
	if err := dealer.Init(circ.NumInteractive()); err != nil {
		return err
	}
	for _, role := range []gmw.Role{gmw.Alice, gmw.Bob} {
		triples, err := dealer.RandFor(role)
		if err != nil {
			return err
		}
		if err := conns[role].SendString(session); err != nil {
			return fmt.Errorf("%v: %w", role, err)
		}
		if err := gmw.SendTriples(conns[role], triples); err != nil {
			return fmt.Errorf("%v: %w", role, err)
		}
	}
	log.Info("triples sent", "session", session,
		"count", circ.NumInteractive())
	return nil
}

type partyCmd struct {
	commonFlags
	role   string
	input  string
	timing bool
}

func (*partyCmd) Name() string { return "party" }
func (*partyCmd) Synopsis() string {
	return "runs Alice or Bob over the network"
}
func (*partyCmd) Usage() string {
	return `Usage: bloodtype party -role=alice|bob -input=<type> [-config=<run.yaml>]

Fetches the Beaver triples from the dealer and runs the protocol with
the peer. Alice listens at the listen address and Bob connects to the
peer address.

Flags:
`
}

func (c *partyCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.role, "role", "", "party role: alice or bob")
	f.StringVar(&c.input, "input", "", "party's blood type")
	f.BoolVar(&c.timing, "timing", false, "print timing report")
}

func (c *partyCmd) Execute(ctx context.Context, f *flag.FlagSet,
	_ ...interface{}) subcommands.ExitStatus {

	role, err := parseRole(c.role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitUsageError
	}
	input, err := parseProfile(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitUsageError
	}
	ctx, config, err := c.setup(ctx, role.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}

	bit, err := c.run(ctx, config, role, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return subcommands.ExitFailure
	}
	beaver.PrintResult(os.Stdout, role, input, uint(bit))
	return subcommands.ExitSuccess
}

func (c *partyCmd) run(ctx context.Context, config *env.Config,
	role gmw.Role, input uint64) (uint, error) {

	circ := circuit.Compatibility()
	timing := circuit.NewTiming()

	triples, session, err := fetchTriples(c.config.Dealer, role,
		circ.NumInteractive())
	if err != nil {
		return 0, fmt.Errorf("dealer: %w", err)
	}
	timing.Sample("Dealer", nil)
	logr.FromContextOrDiscard(ctx).V(1).Info("triples received",
		"session", session)

	p, err := gmw.NewParty(config, role, circ, input, triples)
	if err != nil {
		return 0, err
	}

	var nc net.Conn
	if role == gmw.Alice {
		l, err := net.Listen("tcp", c.config.Listen)
		if err != nil {
			return 0, err
		}
		nc, err = l.Accept()
		l.Close()
		if err != nil {
			return 0, err
		}
	} else {
		nc, err = dial(c.config.Peer)
		if err != nil {
			return 0, err
		}
	}
	conn := p2p.NewConn(nc)
	defer conn.Close()
	if err := checkSession(conn, role, session); err != nil {
		return 0, err
	}
	timing.Sample("Connect", nil)

	bit, err := gmw.Run(ctx, p, conn)
	if err != nil {
		return 0, err
	}
	timing.Sample("Eval", []string{fmt.Sprintf("%d", p.Round())})
	if c.timing {
		timing.Print(os.Stdout, conn.Stats)
	}
	return uint(bit), nil
}

// maxSession limits the length of the dealer's session id.
const maxSession = 64

func fetchTriples(addr string, role gmw.Role, count int) (
	[]gmw.TripleShare, string, error) {

	nc, err := dial(addr)
	if err != nil {
		return nil, "", err
	}
	conn := p2p.NewConn(nc)
	defer conn.Close()

	if err := conn.SendUint32(int(role)); err != nil {
		return nil, "", err
	}
	if err := conn.Flush(); err != nil {
		return nil, "", err
	}
	session, err := conn.ReceiveString(maxSession)
	if err != nil {
		return nil, "", err
	}
	triples, err := gmw.ReceiveTriples(conn, count)
	if err != nil {
		return nil, "", err
	}
	if len(triples) != count {
		return nil, "", fmt.Errorf("got %d triples, expected %d",
			len(triples), count)
	}
	return triples, session, nil
}

// checkSession verifies that the peer got its triples from the same
// dealer session. Triples of different sessions are not correlated
// and would give a random output.
func checkSession(conn *p2p.Conn, role gmw.Role, session string) error {
	var peer string
	var err error

	if role == gmw.Alice {
		if err = conn.SendString(session); err != nil {
			return err
		}
		if err = conn.Flush(); err != nil {
			return err
		}
		peer, err = conn.ReceiveString(maxSession)
	} else {
		peer, err = conn.ReceiveString(maxSession)
		if err == nil {
			if err = conn.SendString(session); err == nil {
				err = conn.Flush()
			}
		}
	}
	if err != nil {
		return fmt.Errorf("session check: %w", err)
	}
	if peer != session {
		return fmt.Errorf("session mismatch: %v has %s, peer has %s",
			role, session, peer)
	}
	return nil
}

const (
	dialAttempts = 50
	dialInterval = 100 * time.Millisecond
)

// dial connects to addr. The peers are started independently so the
// connection is retried until the server is listening.
func dial(addr string) (net.Conn, error) {
	var err error
	for i := 0; i < dialAttempts; i++ {
		var nc net.Conn
		nc, err = net.Dial("tcp", addr)
		if err == nil {
			return nc, nil
		}
		time.Sleep(dialInterval)
	}
	return nil, err
}
