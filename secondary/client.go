package secondary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"gopkg.in/matryer/try.v1"

	"github.com/shopmirror/shopstore/models"
)

const (
	productsURL  = "%v/db/products"
	productURL   = "%v/db/products/%d"
	ordersURL    = "%v/db/orders"
	cartsURL     = "%v/db/carts"
	cartItemsURL = "%v/db/carts/%d/items"
	cartItemURL  = "%v/db/carts/%d/items/%d"

	maxAttempts = 3
)

// ErrNotFound is returned when a natural key has no record in the
// secondary store, e.g. an update racing ahead of its create.
var ErrNotFound = errors.New("record not found in secondary store")

// Client talks to the secondary document store over its REST interface.
// Every request is bounded by the configured timeout so an unreachable
// store cannot stall a drain cycle indefinitely.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &fasthttp.Client{},
	}
}

// do issues one HTTP request, retrying transport-level failures a few
// times within the call. HTTP-level failures (bad status) are not
// retried here; the drainer retries the whole operation next cycle.
func (c *Client) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var (
		status int
		resp   []byte
	)

	err := try.Do(func(attempt int) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		req := fasthttp.AcquireRequest()
		res := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(res)

		req.Header.SetMethod(method)
		req.SetRequestURI(url)
		if body != nil {
			req.Header.SetContentType("application/json")
			req.SetBody(body)
		}

		if err := c.http.DoTimeout(req, res, c.timeout); err != nil {
			return attempt < maxAttempts, errors.Wrapf(err, "%s %s", method, url)
		}

		status = res.StatusCode()
		resp = append([]byte(nil), res.Body()...)
		return false, nil
	})
	if err != nil {
		return 0, nil, err
	}
	return status, resp, nil
}

func (c *Client) send(ctx context.Context, method, url string, payload interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to marshal payload")
		}
	}

	status, resp, err := c.do(ctx, method, url, body)
	if err != nil {
		return err
	}
	if status == fasthttp.StatusNotFound {
		return ErrNotFound
	}
	if status >= fasthttp.StatusMultipleChoices {
		return statusError(method, url, status, resp)
	}
	return nil
}

// statusError extracts the store's error message, if present, without
// committing to its full response schema.
func statusError(method, url string, status int, body []byte) error {
	if msg, err := jsonparser.GetString(body, "error"); err == nil {
		return errors.Errorf("%s %s: status %d: %s", method, url, status, msg)
	}
	return errors.Errorf("%s %s: status %d", method, url, status)
}

func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	status, resp, err := c.do(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	if status >= fasthttp.StatusMultipleChoices {
		return statusError("GET", url, status, resp)
	}
	return errors.Wrap(json.Unmarshal(resp, out), "failed to decode response")
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) error {
	return c.send(ctx, "POST", fmt.Sprintf(productsURL, c.baseURL), p)
}

func (c *Client) FindProduct(ctx context.Context, id int) (models.Product, error) {
	var p models.Product
	url := fmt.Sprintf(productURL, c.baseURL, id)
	status, resp, err := c.do(ctx, "GET", url, nil)
	if err != nil {
		return p, err
	}
	if status == fasthttp.StatusNotFound {
		return p, ErrNotFound
	}
	if status >= fasthttp.StatusMultipleChoices {
		return p, statusError("GET", url, status, resp)
	}
	if err := json.Unmarshal(resp, &p); err != nil {
		return p, errors.Wrap(err, "failed to decode product")
	}
	return p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int, patch models.ProductPatch) error {
	return c.send(ctx, "PUT", fmt.Sprintf(productURL, c.baseURL, id), patch)
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.send(ctx, "DELETE", fmt.Sprintf(productURL, c.baseURL, id), nil)
}

func (c *Client) CreateOrder(ctx context.Context, o models.Order) error {
	return c.send(ctx, "POST", fmt.Sprintf(ordersURL, c.baseURL), o)
}

func (c *Client) CreateCart(ctx context.Context, cart models.Cart) error {
	return c.send(ctx, "POST", fmt.Sprintf(cartsURL, c.baseURL), cart)
}

func (c *Client) AddCartItem(ctx context.Context, userID int, item models.CartItem) error {
	return c.send(ctx, "POST", fmt.Sprintf(cartItemsURL, c.baseURL, userID), item)
}

func (c *Client) RemoveCartItem(ctx context.Context, userID, productID int) error {
	return c.send(ctx, "DELETE", fmt.Sprintf(cartItemURL, c.baseURL, userID, productID), nil)
}

func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.fetch(ctx, fmt.Sprintf(productsURL, c.baseURL), &out)
	return out, err
}

func (c *Client) FetchOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.fetch(ctx, fmt.Sprintf(ordersURL, c.baseURL), &out)
	return out, err
}

func (c *Client) FetchCarts(ctx context.Context) ([]models.Cart, error) {
	var out []models.Cart
	err := c.fetch(ctx, fmt.Sprintf(cartsURL, c.baseURL), &out)
	return out, err
}
