package chaintest

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

var supportedInterfaces = map[[4]byte]bool{
	{0x01, 0xff, 0xc9, 0xa7}: true, // ERC-165
	{0x80, 0xac, 0x58, 0xcd}: true, // ERC-721
	{0x5b, 0x5e, 0x13, 0x9f}: true, // ERC-721 metadata
}

// RevertError is returned for calls and estimates the contract rejects.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return "execution reverted: " + e.Reason
}

func revert(reason string) error {
	return &RevertError{Reason: reason}
}

// collection is the storage of one deployed MyNFT.
type collection struct {
	name, symbol string
	owner        common.Address
	lastID       uint64

	owners    map[uint64]common.Address
	balances  map[common.Address]uint64
	approvals map[uint64]common.Address
	operators map[common.Address]map[common.Address]bool
	uris      map[uint64]string
}

func newCollection(owner common.Address, name, symbol string) *collection {
	return &collection{
		name:      name,
		symbol:    symbol,
		owner:     owner,
		owners:    make(map[uint64]common.Address),
		balances:  make(map[common.Address]uint64),
		approvals: make(map[uint64]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
		uris:      make(map[uint64]string),
	}
}

func (c *collection) ownerOf(id *big.Int) (common.Address, error) {
	if !id.IsUint64() {
		return common.Address{}, revert("ERC721: invalid token ID")
	}

	o, ok := c.owners[id.Uint64()]
	if !ok {
		return common.Address{}, revert("ERC721: invalid token ID")
	}

	return o, nil
}

func (c *collection) isApprovedForAll(owner, operator common.Address) bool {
	return c.operators[owner][operator]
}

func (c *collection) isApprovedOrOwner(spender common.Address, id uint64) bool {
	owner := c.owners[id]
	return spender == owner || c.isApprovedForAll(owner, spender) || c.approvals[id] == spender
}

// execute runs calldata from sender against c. State is only written when
// commit is set; otherwise the call is evaluated and discarded.
func (b *Backend) execute(c *collection, sender, self common.Address, data []byte, commit bool) ([]byte, []*types.Log, error) {
	if len(data) < 4 {
		return nil, nil, revert("function selector was not recognized")
	}

	m, err := b.abi.MethodById(data[:4])
	if err != nil {
		return nil, nil, revert("function selector was not recognized")
	}

	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decoding %s arguments", m.RawName)
	}

	var (
		result []interface{}
		logs   []*types.Log
	)

	switch m.RawName {
	case "name":
		result = []interface{}{c.name}

	case "symbol":
		result = []interface{}{c.symbol}

	case "owner":
		result = []interface{}{c.owner}

	case "supportsInterface":
		result = []interface{}{supportedInterfaces[args[0].([4]byte)]}

	case "balanceOf":
		owner := args[0].(common.Address)
		if owner == (common.Address{}) {
			return nil, nil, revert("ERC721: address zero is not a valid owner")
		}
		result = []interface{}{new(big.Int).SetUint64(c.balances[owner])}

	case "ownerOf":
		owner, err := c.ownerOf(args[0].(*big.Int))
		if err != nil {
			return nil, nil, err
		}
		result = []interface{}{owner}

	case "getApproved":
		id := args[0].(*big.Int)
		if _, err := c.ownerOf(id); err != nil {
			return nil, nil, err
		}
		result = []interface{}{c.approvals[id.Uint64()]}

	case "isApprovedForAll":
		result = []interface{}{c.isApprovedForAll(args[0].(common.Address), args[1].(common.Address))}

	case "tokenURI":
		id := args[0].(*big.Int)
		if _, err := c.ownerOf(id); err != nil {
			return nil, nil, err
		}
		result = []interface{}{c.uris[id.Uint64()]}

	case "mint":
		to := args[0].(common.Address)
		uri := args[1].(string)

		if sender != c.owner {
			return nil, nil, revert("Ownable: caller is not the owner")
		}
		if to == (common.Address{}) {
			return nil, nil, revert("ERC721: mint to the zero address")
		}

		id := c.lastID + 1
		if commit {
			c.lastID = id
			c.owners[id] = to
			c.balances[to]++
			c.uris[id] = uri
		}

		tokenID := new(big.Int).SetUint64(id)
		logs = append(logs, b.eventLog(self, "Transfer", nil, addressTopic(common.Address{}), addressTopic(to), common.BigToHash(tokenID)))
		result = []interface{}{tokenID}

	case "approve":
		to := args[0].(common.Address)
		id := args[1].(*big.Int)

		owner, err := c.ownerOf(id)
		if err != nil {
			return nil, nil, err
		}
		if to == owner {
			return nil, nil, revert("ERC721: approval to current owner")
		}
		if sender != owner && !c.isApprovedForAll(owner, sender) {
			return nil, nil, revert("ERC721: approve caller is not token owner or approved for all")
		}

		if commit {
			c.approvals[id.Uint64()] = to
		}
		logs = append(logs, b.eventLog(self, "Approval", nil, addressTopic(owner), addressTopic(to), common.BigToHash(id)))

	case "setApprovalForAll":
		operator := args[0].(common.Address)
		approved := args[1].(bool)

		if operator == sender {
			return nil, nil, revert("ERC721: approve to caller")
		}

		if commit {
			if c.operators[sender] == nil {
				c.operators[sender] = make(map[common.Address]bool)
			}
			c.operators[sender][operator] = approved
		}

		data, err := b.abi.Events["ApprovalForAll"].Inputs.NonIndexed().Pack(approved)
		if err != nil {
			return nil, nil, err
		}
		logs = append(logs, b.eventLog(self, "ApprovalForAll", data, addressTopic(sender), addressTopic(operator)))

	case "transferFrom", "safeTransferFrom":
		from := args[0].(common.Address)
		to := args[1].(common.Address)
		id := args[2].(*big.Int)

		owner, err := c.ownerOf(id)
		if err != nil {
			return nil, nil, err
		}
		if !c.isApprovedOrOwner(sender, id.Uint64()) {
			return nil, nil, revert("ERC721: caller is not token owner or approved")
		}
		if owner != from {
			return nil, nil, revert("ERC721: transfer from incorrect owner")
		}
		if to == (common.Address{}) {
			return nil, nil, revert("ERC721: transfer to the zero address")
		}
		// Deployed contracts here never implement onERC721Received.
		if m.RawName == "safeTransferFrom" && len(b.code[to]) > 0 {
			return nil, nil, revert("ERC721: transfer to non ERC721Receiver implementer")
		}

		if commit {
			delete(c.approvals, id.Uint64())
			c.balances[from]--
			c.balances[to]++
			c.owners[id.Uint64()] = to
		}
		logs = append(logs, b.eventLog(self, "Transfer", nil, addressTopic(from), addressTopic(to), common.BigToHash(id)))

	case "transferOwnership":
		newOwner := args[0].(common.Address)

		if sender != c.owner {
			return nil, nil, revert("Ownable: caller is not the owner")
		}
		if newOwner == (common.Address{}) {
			return nil, nil, revert("Ownable: new owner is the zero address")
		}

		prev := c.owner
		if commit {
			c.owner = newOwner
		}
		logs = append(logs, b.eventLog(self, "OwnershipTransferred", nil, addressTopic(prev), addressTopic(newOwner)))

	case "renounceOwnership":
		if sender != c.owner {
			return nil, nil, revert("Ownable: caller is not the owner")
		}

		prev := c.owner
		if commit {
			c.owner = common.Address{}
		}
		logs = append(logs, b.eventLog(self, "OwnershipTransferred", nil, addressTopic(prev), addressTopic(common.Address{})))

	default:
		return nil, nil, revert("function " + m.RawName + " is not implemented")
	}

	out, err := m.Outputs.Pack(result...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "encoding %s result", m.RawName)
	}

	return out, logs, nil
}

func (b *Backend) eventLog(contract common.Address, event string, data []byte, topics ...common.Hash) *types.Log {
	return &types.Log{
		Address: contract,
		Topics:  append([]common.Hash{b.abi.Events[event].ID}, topics...),
		Data:    data,
	}
}

func addressTopic(a common.Address) common.Hash {
	return common.BytesToHash(a.Bytes())
}
