package htmlmodule_test

import (
	"context"
	"fmt"

	"vimagination.zapto.org/htmlmodule"
)

func Example() {
	script, err := htmlmodule.Rewrite(context.Background(), "<p>Hello, `World`</p>")
	if err != nil {
		fmt.Println(err)
	} else {
		fmt.Println(script)
	}

	// Output:
	// const template = document.createElement('template');
	// const moduleDocument = document.implementation.createHTMLDocument();
	// template.innerHTML = `<p>Hello, \`World\`</p>`;
	// moduleDocument.body.appendChild(template.content);
	// export default moduleDocument;
}

type entryEngine struct{}

func (entryEngine) Build(_ context.Context, entry string, hooks htmlmodule.Hooks) ([]htmlmodule.Artifact, error) {
	src, _ := hooks.Load(entry)

	return []htmlmodule.Artifact{{Code: src}}, nil
}

func ExampleBundler() {
	const page = `<script type="module">console.log(1)</script><script type="module" src="b.js"></script>`

	script, err := htmlmodule.Rewrite(context.Background(), page, htmlmodule.Bundler(entryEngine{}))
	if err != nil {
		fmt.Println(err)
	} else {
		fmt.Println(script)
	}

	// Output:
	// export { default } from '\x00virtual:0';
	// export * from '\x00virtual:1';
	// import './b.js';
}
