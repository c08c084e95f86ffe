package browser

// optionsScript lists the options of a native select, or null for any other element.
const optionsScript = `el => {
	if (el.tagName !== 'SELECT') return null;

	return Array.from(el.options).map((o, i) => ({index: i, text: o.text, value: o.value}));
}`

const selectedScript = `el => !!(el.checked || el.selected)`

const submitScript = `el => {
	const form = el.form || el.closest('form') || (el.tagName === 'FORM' ? el : null);
	if (!form) throw new Error('element is not inside a form');

	form.requestSubmit();
}`
