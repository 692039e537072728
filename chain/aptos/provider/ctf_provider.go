package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/smartcontractkit/chainlink-testing-framework/framework"
	"github.com/smartcontractkit/chainlink-testing-framework/framework/components/blockchain"
	"github.com/smartcontractkit/freeport"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/mokshyaprotocol/candymachine-go/chain"
	"github.com/mokshyaprotocol/candymachine-go/chain/aptos"
)

// localnetFundAmount is the amount of octas minted to every configured account on startup.
const localnetFundAmount = 100_000_000_000

// CTFChainProviderConfig holds the configuration to initialize the CTFChainProvider.
type CTFChainProviderConfig struct {
	// Optional: Generators for accounts that are funded once the localnet is up. Use
	// AccountGenPrivateKey to fund the harness accounts, or AccountGenCTFDefault for the
	// localnet's own root account.
	AccountGens []AccountGenerator

	// Required: A sync.Once instance to ensure that the CTF framework only sets up the new
	// DefaultNetwork once
	Once *sync.Once
}

// validate checks if the CTFChainProviderConfig is valid.
func (c CTFChainProviderConfig) validate() error {
	if c.Once == nil {
		return errors.New("sync.Once instance is required")
	}

	for i, gen := range c.AccountGens {
		if gen == nil {
			return fmt.Errorf("account generator %d is nil", i)
		}
	}

	return nil
}

var _ chain.Provider = (*CTFChainProvider)(nil)

// CTFChainProvider manages an Aptos localnet running inside a Chainlink Testing Framework (CTF)
// Docker container, including its faucet.
//
// This provider requires Docker to be installed and operational. Spinning up a new container can be slow,
// so it is recommended to initialize the provider only once per test suite or parent test to optimize performance.
type CTFChainProvider struct {
	t        *testing.T
	selector uint64
	config   CTFChainProviderConfig

	chain    *aptos.Chain
	accounts []*aptoslib.Account
}

// NewCTFChainProvider creates a new CTFChainProvider with the given selector and configuration.
func NewCTFChainProvider(
	t *testing.T, selector uint64, config CTFChainProviderConfig,
) *CTFChainProvider {
	t.Helper()

	p := &CTFChainProvider{
		t:        t,
		selector: selector,
		config:   config,
	}

	return p
}

// Initialize sets up the Aptos chain by validating the configuration, generating the accounts,
// starting a CTF container and funding the accounts on it.
func (p *CTFChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	accounts := make([]*aptoslib.Account, 0, len(p.config.AccountGens))
	for _, gen := range p.config.AccountGens {
		account, err := gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate account: %w", err)
		}
		accounts = append(accounts, account)
	}

	chainID, err := chainIDFromSelector(p.selector)
	if err != nil {
		return nil, err
	}
	if chainID == 0 {
		return nil, fmt.Errorf("failed to get chain ID from selector %d: localnet requires a registered selector", p.selector)
	}

	nodeURL, faucetURL := p.startContainer(strconv.FormatUint(uint64(chainID), 10), accounts)

	client, err := aptos.NewNodeClient(nodeURL, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Aptos RPC client for localnet: %w", err)
	}

	faucet, err := aptos.NewFaucetClient(nodeURL, chainID, faucetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Aptos faucet client for localnet: %w", err)
	}

	p.accounts = accounts
	p.chain = &aptos.Chain{
		Selector:  p.selector,
		Client:    client,
		Faucet:    faucet,
		URL:       nodeURL,
		FaucetURL: faucetURL,
		Confirm:   aptos.ConfirmFunc(client),
	}

	return *p.chain, nil
}

// Name returns the name of the CTFChainProvider.
func (*CTFChainProvider) Name() string {
	return "Aptos CTF Chain Provider"
}

// ChainSelector returns the chain selector of the Aptos chain managed by this provider.
func (p *CTFChainProvider) ChainSelector() uint64 {
	return p.selector
}

// BlockChain returns the Aptos chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *CTFChainProvider) BlockChain() chain.BlockChain {
	return *p.chain
}

// Accounts returns the funded accounts, in the order of CTFChainProviderConfig.AccountGens.
func (p *CTFChainProvider) Accounts() []*aptoslib.Account {
	return p.accounts
}

// startContainer starts a CTF container for the Aptos chain with the given chain ID and funds
// the accounts on it. It returns the URLs of the node and the faucet.
func (p *CTFChainProvider) startContainer(
	chainID string, accounts []*aptoslib.Account,
) (string, string) {
	var (
		maxRetries    = 10
		nodeURL       string
		faucetURL     string
		containerName string
	)

	// initialize the docker network used by CTF
	err := framework.DefaultNetwork(p.config.Once)
	require.NoError(p.t, err)

	publicKey := blockchain.DefaultAptosAccount
	if len(accounts) > 0 {
		publicKey = accounts[0].Address.String()
	}

	for range maxRetries {
		// reserve all the ports we need explicitly to avoid port conflicts in other tests
		ports := freeport.GetN(p.t, 2)

		input := &blockchain.Input{
			Image:     "", // filled out by defaultAptos function
			Type:      blockchain.TypeAptos,
			ChainID:   chainID,
			PublicKey: publicKey,
			CustomPorts: []string{
				fmt.Sprintf("%d:8080", ports[0]),
				fmt.Sprintf("%d:8081", ports[1]),
			},
		}

		var output *blockchain.Output
		output, err = blockchain.NewBlockchainNetwork(input)
		if err != nil {
			p.t.Logf("Error creating Aptos network: %v", err)
			freeport.Return(ports)
			time.Sleep(time.Second)
			maxRetries -= 1

			continue
		}
		require.NoError(p.t, err)

		containerName = output.ContainerName
		testcontainers.CleanupContainer(p.t, output.Container)
		nodeURL = output.Nodes[0].ExternalHTTPUrl + "/v1"
		faucetURL = fmt.Sprintf("http://127.0.0.1:%d", ports[1])

		break
	}
	require.NotEmpty(p.t, nodeURL, "Aptos network not started")

	client, err := aptoslib.NewNodeClient(nodeURL, 0)
	require.NoError(p.t, err)

	var ready bool
	for i := range 30 {
		time.Sleep(time.Second)
		if _, err = client.GetChainId(); err != nil {
			p.t.Logf("API server not ready yet (attempt %d): %+v\n", i+1, err)

			continue
		}
		ready = true

		break
	}
	require.True(p.t, ready, "Aptos network not ready")

	dc, err := framework.NewDockerClient()
	require.NoError(p.t, err)

	for _, account := range accounts {
		_, err = dc.ExecContainer(containerName, []string{
			"aptos", "account", "fund-with-faucet",
			"--account", account.Address.String(),
			"--amount", strconv.FormatUint(localnetFundAmount, 10),
		})
		require.NoError(p.t, err)
	}

	return nodeURL, faucetURL
}
